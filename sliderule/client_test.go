package sliderule_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aalemi-dev/sliderule-go/dispatch"
	"github.com/aalemi-dev/sliderule-go/logger"
	"github.com/aalemi-dev/sliderule-go/observability"
	"github.com/aalemi-dev/sliderule-go/record"
	"github.com/aalemi-dev/sliderule-go/sliderule"
	"github.com/aalemi-dev/sliderule-go/stream"
)

func TestServiceURL(t *testing.T) {
	cases := []struct {
		url, org, want string
	}{
		{"slideruleearth.io", "sliderule", "https://sliderule.slideruleearth.io/source/atl06"},
		{"https://slideruleearth.io/", "", "https://slideruleearth.io/source/atl06"},
		{"http://localhost:9081", "sliderule", "http://localhost:9081/source/atl06"},
		{"http://127.0.0.1:9081", "developers", "http://127.0.0.1:9081/source/atl06"},
		{"", "sliderule", "https://sliderule.slideruleearth.io/source/atl06"},
	}
	for _, tc := range cases {
		got, err := sliderule.Config{URL: tc.url, Organization: tc.org}.ServiceURL("atl06")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := sliderule.Config{URL: "https://"}.ServiceURL("atl06")
	assert.ErrorIs(t, err, sliderule.ErrInvalidConfig)
}

func TestNewClientValidates(t *testing.T) {
	_, err := sliderule.NewClient(sliderule.Config{URL: "http://localhost", Timeout: -time.Second})
	assert.ErrorIs(t, err, sliderule.ErrInvalidConfig)

	client, err := sliderule.NewClient(sliderule.Config{})
	require.NoError(t, err)
	assert.Equal(t, sliderule.DefaultTimeout, client.Config().Timeout)
	assert.Equal(t, sliderule.DefaultChunkSize, client.Config().ChunkSize)
}

func TestStreamCollectsAndRoutes(t *testing.T) {
	body := frame(t,
		logRec(1, "request started"),
		simpleRec(1, 1.5),
		simpleRec(2, 2.5),
		exceptRec(dispatch.CodeEmptySubset, 2, "no photons in segment"),
		simpleRec(3, 3.5),
	)
	svc, server := newFakeService(t, map[string]http.HandlerFunc{"atl06": writeStream(body)})
	client := newTestClient(t, server, func(c *sliderule.Config) { c.Token = "secret" })

	res, err := client.Stream(context.Background(), "atl06", map[string]interface{}{"resource": "x"}, nil)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	for i, rec := range res.Records {
		assert.Equal(t, "simple", rec.Type)
		id, _ := rec.Int("id")
		assert.Equal(t, int64(i+1), id)
	}
	h, _ := res.Records[1].Float("h")
	assert.InDelta(t, 2.5, h, 1e-6)

	require.NotNil(t, res.Diagnostic)
	assert.Equal(t, "no photons in segment", res.Diagnostic.Message)
	assert.Equal(t, int64(dispatch.CodeEmptySubset), res.Diagnostic.Code)
	assert.False(t, res.Truncated)
	assert.Equal(t, int64(len(body)), res.Bytes)
	assert.Equal(t, map[string]int{"simple": 3, "logrec": 1, "exceptrec": 1}, res.Counts)

	hdr := svc.lastHeader()
	assert.Equal(t, "Bearer secret", hdr.Get("Authorization"))
	assert.Equal(t, res.RequestID, hdr.Get(sliderule.RequestIDHeader))
	assert.Empty(t, hdr.Get("Accept-Encoding"))
}

func TestStreamSchemaCacheSharedAcrossRequests(t *testing.T) {
	body := frame(t, simpleRec(1, 1), simpleRec(2, 2))
	svc, server := newFakeService(t, map[string]http.HandlerFunc{"atl06": writeStream(body)})
	client := newTestClient(t, server)

	for i := 0; i < 3; i++ {
		res, err := client.Stream(context.Background(), "atl06", nil, nil)
		require.NoError(t, err)
		assert.Len(t, res.Records, 2)
	}
	assert.Equal(t, 1, svc.definitionCalls("simple"))
	assert.Equal(t, 1, client.Schemas().Len())
}

func TestStreamHandlerSuppressesCollection(t *testing.T) {
	body := frame(t, simpleRec(1, 1), logRec(1, "hello"), simpleRec(2, 2))
	_, server := newFakeService(t, map[string]http.HandlerFunc{"atl06": writeStream(body)})
	client := newTestClient(t, server)

	var logs []string
	var simple int
	res, err := client.Stream(context.Background(), "atl06", nil, dispatch.Handlers{
		"logrec": func(_ context.Context, rec *record.Record) {
			msg, _ := rec.Text("message")
			logs = append(logs, msg)
		},
		"simple": func(context.Context, *record.Record) { simple++ },
	})
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, []string{"hello"}, logs)
	assert.Equal(t, 2, simple)
}

func TestStreamUnknownTypeKeepsTag(t *testing.T) {
	body := frame(t, stream.WireRecord{Type: "mystery", Payload: []byte{1, 2}})
	svc, server := newFakeService(t, map[string]http.HandlerFunc{"atl06": writeStream(body)})
	client := newTestClient(t, server)

	res, err := client.Stream(context.Background(), "atl06", nil, nil)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "mystery", res.Records[0].Type)
	assert.Equal(t, 0, res.Records[0].Len())

	// Failed resolutions are retried on the next stream.
	_, err = client.Stream(context.Background(), "atl06", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.definitionCalls("mystery"))
}

func TestStreamTruncatedIsPartialResult(t *testing.T) {
	body := frame(t, simpleRec(1, 1), simpleRec(2, 2))
	body = body[:len(body)-3]
	_, server := newFakeService(t, map[string]http.HandlerFunc{"atl06": writeStream(body)})

	core, logs := observer.New(zapcore.WarnLevel)
	client := newTestClient(t, server).WithLogger(&logger.LoggerClient{Zap: zap.New(core)})

	res, err := client.Stream(context.Background(), "atl06", nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.ErrorIs(t, res.FramingError, stream.ErrTruncated)
	assert.Len(t, res.Records, 1)
	assert.Equal(t, 1, logs.FilterMessage("response stream truncated").Len())
}

func TestStreamTransportAbort(t *testing.T) {
	body := frame(t, simpleRec(1, 1))
	_, server := newFakeService(t, map[string]http.HandlerFunc{
		"atl06": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", strconv.Itoa(len(body)+100))
			_, _ = w.Write(body)
		},
	})
	client := newTestClient(t, server)

	res, err := client.Stream(context.Background(), "atl06", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, stream.ErrStreamAborted)
	assert.True(t, sliderule.IsRetryable(err))
	require.NotNil(t, res)
	assert.Len(t, res.Records, 1)
}

func TestStreamServiceError(t *testing.T) {
	_, server := newFakeService(t, map[string]http.HandlerFunc{
		"atl06": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad parameters", http.StatusBadRequest)
		},
		"atl03s": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	})
	client := newTestClient(t, server)

	_, err := client.Stream(context.Background(), "atl06", nil, nil)
	var se *sliderule.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "bad parameters", se.Message)
	assert.False(t, sliderule.IsRetryable(err))

	_, err = client.Stream(context.Background(), "atl03s", nil, nil)
	assert.True(t, sliderule.IsRetryable(err))
}

func TestStreamZstd(t *testing.T) {
	body := frame(t, simpleRec(7, 7), simpleRec(8, 8))
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll(body, nil)
	require.NoError(t, enc.Close())

	svc, server := newFakeService(t, map[string]http.HandlerFunc{
		"atl06": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept-Encoding") == "zstd" {
				w.Header().Set("Content-Encoding", "zstd")
				_, _ = w.Write(compressed)
				return
			}
			_, _ = w.Write(body)
		},
	})
	client := newTestClient(t, server, func(c *sliderule.Config) { c.Compression = true })

	res, err := client.Stream(context.Background(), "atl06", nil, nil)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	id, _ := res.Records[1].Int("id")
	assert.Equal(t, int64(8), id)
	assert.Equal(t, "zstd", svc.lastHeader().Get("Accept-Encoding"))
}

func TestRequestAndVersion(t *testing.T) {
	_, server := newFakeService(t, map[string]http.HandlerFunc{
		"version": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"server": map[string]interface{}{"version": "v4.5.0"},
			})
		},
		"broken": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		},
	})
	client := newTestClient(t, server)

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v4.5.0", version["server"].(map[string]interface{})["version"])

	var out map[string]interface{}
	err = client.Request(context.Background(), "broken", nil, &out)
	assert.ErrorIs(t, err, sliderule.ErrDecodeResponse)
}

func TestDefinition(t *testing.T) {
	_, server := newFakeService(t, nil)
	client := newTestClient(t, server)

	s, err := client.Definition(context.Background(), "exceptrec")
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "level", "text"}, []string{s.Fields[0].Name, s.Fields[1].Name, s.Fields[2].Name})

	_, err = client.Definition(context.Background(), "nope")
	var se *sliderule.ServiceError
	assert.ErrorAs(t, err, &se)
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ctx)
}

func (r *recordingObserver) find(component, operation string) []observability.OperationContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []observability.OperationContext
	for _, c := range r.calls {
		if c.Component == component && c.Operation == operation {
			out = append(out, c)
		}
	}
	return out
}

func TestStreamObserver(t *testing.T) {
	body := frame(t, simpleRec(1, 1))
	_, server := newFakeService(t, map[string]http.HandlerFunc{"atl06": writeStream(body)})
	obs := &recordingObserver{}
	client := newTestClient(t, server).WithObserver(obs)

	res, err := client.Stream(context.Background(), "atl06", nil, nil)
	require.NoError(t, err)

	streams := obs.find("sliderule", "stream")
	require.Len(t, streams, 1)
	assert.Equal(t, "atl06", streams[0].Resource)
	assert.Equal(t, res.RequestID, streams[0].SubResource)
	assert.Equal(t, 1, streams[0].Metadata["records"])
	assert.Equal(t, int64(len(body)), streams[0].Size)

	assert.Len(t, obs.find("schema_registry", "get_schema"), 1)
	assert.Len(t, obs.find("sliderule", "definition"), 1)
}

func TestRunPool(t *testing.T) {
	var inflight, peak atomic.Int32
	results := make([]int, 20)

	err := sliderule.RunPool(context.Background(), 3, len(results), func(ctx context.Context, i int) error {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		results[i] = i * i
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	for i, v := range results {
		assert.Equal(t, i*i, v)
	}
}

func TestRunPoolStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	err := sliderule.RunPool(context.Background(), 1, 50, func(ctx context.Context, i int) error {
		calls.Add(1)
		if i == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Less(t, calls.Load(), int32(50))
}
