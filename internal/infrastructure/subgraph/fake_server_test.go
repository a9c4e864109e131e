package subgraph

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeRequest struct {
	Kind      QueryKind
	First     int
	Skip      int
	Variables map[string]interface{}
}

// fakeSubgraph is a minimal GraphQL endpoint serving canned swaps per query kind
type fakeSubgraph struct {
	mu       sync.Mutex
	server   *httptest.Server
	swaps    map[QueryKind][]map[string]interface{}
	requests []fakeRequest

	// FailKinds makes every request for the given kind return a 500
	FailKinds map[QueryKind]bool
	// FailAtSkip makes the request at this offset return a 500 (-1 disables)
	FailAtSkip int
	// Delay is slept before answering
	Delay time.Duration
	// RawBody, if set, is returned verbatim with status 200
	RawBody string
}

func newFakeSubgraph(t *testing.T) *fakeSubgraph {
	t.Helper()
	f := &fakeSubgraph{
		swaps:      make(map[QueryKind][]map[string]interface{}),
		FailKinds:  make(map[QueryKind]bool),
		FailAtSkip: -1,
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeSubgraph) URL() string {
	return f.server.URL
}

func (f *fakeSubgraph) SetSwaps(kind QueryKind, swaps ...map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swaps[kind] = swaps
}

func (f *fakeSubgraph) Requests() []fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeSubgraph) RequestsFor(kind QueryKind) []fakeRequest {
	var out []fakeRequest
	for _, r := range f.Requests() {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeSubgraph) serve(w http.ResponseWriter, r *http.Request) {
	var body graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	req := fakeRequest{
		Kind:      kindOf(body.Query),
		First:     intVar(body.Variables["first"]),
		Skip:      intVar(body.Variables["skip"]),
		Variables: body.Variables,
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	failKind := f.FailKinds[req.Kind]
	failAtSkip := f.FailAtSkip
	delay := f.Delay
	rawBody := f.RawBody
	all := f.swaps[req.Kind]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if failKind || (failAtSkip >= 0 && req.Skip == failAtSkip) {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if rawBody != "" {
		_, _ = w.Write([]byte(rawBody))
		return
	}

	start := req.Skip
	if start > len(all) {
		start = len(all)
	}
	end := start + req.First
	if end > len(all) {
		end = len(all)
	}

	page := all[start:end]
	if page == nil {
		page = []map[string]interface{}{}
	}

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{"swaps": page},
	})
}

func kindOf(query string) QueryKind {
	switch {
	case strings.Contains(query, "origin_in"):
		return QueryByOrigin
	case strings.Contains(query, "sender_in"):
		return QueryBySender
	case strings.Contains(query, "recipient_in"):
		return QueryByRecipient
	default:
		return ""
	}
}

func intVar(v interface{}) int {
	if n, ok := v.(float64); ok {
		return int(n)
	}
	return -1
}

func rawSwapJSON(id string, ts int64, amountUSD, origin, sender, recipient string) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"timestamp": itoa(ts),
		"amountUSD": amountUSD,
		"origin":    origin,
		"sender":    sender,
		"recipient": recipient,
		"pool": map[string]interface{}{
			"feeTier": "3000",
			"token0":  map[string]interface{}{"symbol": "WETH"},
			"token1":  map[string]interface{}{"symbol": "USDC"},
		},
	}
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func numberedSwaps(prefix string, n int, origin string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, rawSwapJSON(prefix+itoa(int64(i)), 1700000000+int64(i), "10", origin, "0xpool", "0xpool"))
	}
	return out
}
