package sliderule_test

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/sliderule-go/sliderule"
	"github.com/aalemi-dev/sliderule-go/stream"
)

var definitions = map[string]string{
	"simple": `{
		"@datasize": 8,
		"id": {"type": "UINT32", "offset": 0, "elements": 1, "flags": "LE"},
		"h": {"type": "FLOAT", "offset": 32, "elements": 1, "flags": "LE"}
	}`,
	"logrec": `{
		"level": {"type": "INT32", "offset": 0, "elements": 1, "flags": "LE"},
		"message": {"type": "STRING", "offset": 32, "elements": 0}
	}`,
	"exceptrec": `{
		"code": {"type": "INT32", "offset": 0, "elements": 1, "flags": "LE"},
		"level": {"type": "INT32", "offset": 32, "elements": 1, "flags": "LE"},
		"text": {"type": "STRING", "offset": 64, "elements": 0}
	}`,
}

func simpleRec(id uint32, h float32) stream.WireRecord {
	payload := binary.LittleEndian.AppendUint32(nil, id)
	payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(h))
	return stream.WireRecord{Type: "simple", Payload: payload}
}

func logRec(level int32, msg string) stream.WireRecord {
	payload := binary.LittleEndian.AppendUint32(nil, uint32(level))
	payload = append(payload, msg...)
	payload = append(payload, 0)
	return stream.WireRecord{Type: "logrec", Payload: payload}
}

func exceptRec(code, level int32, text string) stream.WireRecord {
	payload := binary.LittleEndian.AppendUint32(nil, uint32(code))
	payload = binary.LittleEndian.AppendUint32(payload, uint32(level))
	payload = append(payload, text...)
	payload = append(payload, 0)
	return stream.WireRecord{Type: "exceptrec", Payload: payload}
}

func frame(t *testing.T, recs ...stream.WireRecord) []byte {
	t.Helper()
	var buf []byte
	for _, rec := range recs {
		var err error
		buf, err = stream.AppendRecord(buf, rec)
		require.NoError(t, err)
	}
	return buf
}

// fakeService serves the definition endpoint from definitions and delegates
// every other API to streams.
type fakeService struct {
	mu          sync.Mutex
	definitions map[string]int
	headers     []http.Header
	streams     map[string]http.HandlerFunc
}

func newFakeService(t *testing.T, streams map[string]http.HandlerFunc) (*fakeService, *httptest.Server) {
	t.Helper()
	svc := &fakeService{definitions: make(map[string]int), streams: streams}
	server := httptest.NewServer(svc)
	t.Cleanup(server.Close)
	return svc, server
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.headers = append(f.headers, r.Header.Clone())
	f.mu.Unlock()

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path == "/source/definition" {
		var req struct {
			RecType string `json:"rectype"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.definitions[req.RecType]++
		f.mu.Unlock()

		def, ok := definitions[req.RecType]
		if !ok {
			http.Error(w, "unknown record type", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(def))
		return
	}
	for api, h := range f.streams {
		if r.URL.Path == "/source/"+api {
			h(w, r)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (f *fakeService) definitionCalls(rectype string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.definitions[rectype]
}

func (f *fakeService) lastHeader() http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.headers) == 0 {
		return nil
	}
	return f.headers[len(f.headers)-1]
}

func writeStream(body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(body)
	}
}

func newTestClient(t *testing.T, server *httptest.Server, mutate ...func(*sliderule.Config)) *sliderule.Client {
	t.Helper()
	cfg := sliderule.DefaultConfig()
	cfg.URL = server.URL
	cfg.Organization = ""
	for _, m := range mutate {
		m(&cfg)
	}
	client, err := sliderule.NewClient(cfg)
	require.NoError(t, err)
	return client
}
