package cmr_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/sliderule-go/cmr"
)

func entries(names ...string) map[string]interface{} {
	list := make([]map[string]interface{}, len(names))
	for i, n := range names {
		list[i] = map[string]interface{}{"producer_granule_id": n}
	}
	return map[string]interface{}{"feed": map[string]interface{}{"entry": list}}
}

func TestSearchPaginates(t *testing.T) {
	var mu sync.Mutex
	var queries []string
	var cursors []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/granules.json", r.URL.Path)
		mu.Lock()
		queries = append(queries, r.URL.RawQuery)
		cursors = append(cursors, r.Header.Get(cmr.SearchAfterHeader))
		mu.Unlock()

		switch r.Header.Get(cmr.SearchAfterHeader) {
		case "":
			w.Header().Set(cmr.SearchAfterHeader, "page-2")
			_ = json.NewEncoder(w).Encode(entries("ATL03_a.h5", "ATL03_b.h5"))
		case "page-2":
			w.Header().Set(cmr.SearchAfterHeader, "page-3")
			_ = json.NewEncoder(w).Encode(entries("ATL03_c.h5"))
		default:
			t.Errorf("unexpected cursor %q", r.Header.Get(cmr.SearchAfterHeader))
		}
	}))
	defer server.Close()

	client, err := cmr.NewClient(cmr.Config{URL: server.URL, Provider: "NSIDC_ECS", PageSize: 2})
	require.NoError(t, err)

	granules, err := client.Search(context.Background(), cmr.Query{
		ShortName: "ATL03",
		Version:   "006",
		Polygon: []cmr.Point{
			{Lon: -108.3, Lat: 38.9},
			{Lon: -107.8, Lat: 38.9},
			{Lon: -107.8, Lat: 39.1},
		},
		Start: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ATL03_a.h5", "ATL03_b.h5", "ATL03_c.h5"}, granules)
	assert.Equal(t, []string{"", "page-2"}, cursors)

	require.NotEmpty(t, queries)
	assert.Contains(t, queries[0], "short_name=ATL03")
	assert.Contains(t, queries[0], "version=006")
	assert.Contains(t, queries[0], "page_size=2")
	assert.Contains(t, queries[0], "temporal=2019-01-01T00%3A00%3A00Z%2C")
}

func TestSearchFallsBackToTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"feed":{"entry":[{"title":"SC:ATL03_x.h5"},{"producer_granule_id":""}]}}`))
	}))
	defer server.Close()

	client, err := cmr.NewClient(cmr.Config{URL: server.URL})
	require.NoError(t, err)
	granules, err := client.Search(context.Background(), cmr.Query{ShortName: "ATL03"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SC:ATL03_x.h5"}, granules)
}

func TestSearchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad polygon", http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := cmr.NewClient(cmr.Config{URL: server.URL})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), cmr.Query{ShortName: "ATL03"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")

	_, err = client.Search(context.Background(), cmr.Query{})
	assert.Error(t, err)

	_, err = client.Search(context.Background(), cmr.Query{ShortName: "ATL03", Polygon: []cmr.Point{{}}})
	assert.Error(t, err)
}

func TestPolygonParamCloses(t *testing.T) {
	poly := []cmr.Point{{Lon: 1, Lat: 2}, {Lon: 3, Lat: 4}, {Lon: 5, Lat: 6}}
	got, err := cmr.PolygonParam(poly)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3,4,5,6,1,2", got)
	assert.Len(t, poly, 3)

	closed := append(poly, poly[0])
	got, err = cmr.PolygonParam(closed)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3,4,5,6,1,2", got)
}
