package subgraph

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bimakw/dex-volume-checker/internal/config"
	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

func ids(records []entities.SwapRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func newTestFetcher(parallel bool, endpoints ...string) *Fetcher {
	return NewFetcher(config.SubgraphConfig{
		Endpoints:       endpoints,
		RequestTimeout:  2 * time.Second,
		PageSize:        2,
		ParallelQueries: parallel,
	}, zap.NewNop())
}

// healthyFake serves three swaps across the query kinds, tagged with prefix
func healthyFake(t *testing.T, prefix string) *fakeSubgraph {
	fake := newFakeSubgraph(t)
	fake.SetSwaps(QueryByOrigin,
		rawSwapJSON(prefix+"-1", 1700000000, "100", "0xabc", "0xrouter", "0xrouter"),
		rawSwapJSON(prefix+"-2", 1700000001, "200", "0xabc", "0xabc", "0xpool"),
	)
	fake.SetSwaps(QueryBySender,
		rawSwapJSON(prefix+"-2", 1700000001, "200", "0xabc", "0xabc", "0xpool"),
	)
	fake.SetSwaps(QueryByRecipient,
		rawSwapJSON(prefix+"-3", 1700000002, "300", "0xother", "0xpool", "0xabc"),
	)
	return fake
}

func forEachMode(t *testing.T, fn func(t *testing.T, parallel bool)) {
	t.Run("sequential", func(t *testing.T) { fn(t, false) })
	t.Run("parallel", func(t *testing.T) { fn(t, true) })
}

func TestFetcher_FetchSwaps_FirstEndpointWins(t *testing.T) {
	forEachMode(t, func(t *testing.T, parallel bool) {
		primary := healthyFake(t, "primary")
		secondary := healthyFake(t, "secondary")

		f := newTestFetcher(parallel, primary.URL(), secondary.URL())
		sets, err := f.FetchSwaps(context.Background(), []string{"0xabc"}, 1700000000, 1700086399)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if sets.Endpoint != primary.URL() {
			t.Errorf("expected primary endpoint, got %s", sets.Endpoint)
		}
		if len(sets.ByOrigin) != 2 || len(sets.BySender) != 1 || len(sets.ByRecipient) != 1 {
			t.Errorf("unexpected set sizes %d/%d/%d", len(sets.ByOrigin), len(sets.BySender), len(sets.ByRecipient))
		}
		if sets.ByOrigin[0].ID != "primary-1" {
			t.Errorf("expected primary data, got %s", sets.ByOrigin[0].ID)
		}
		if len(secondary.Requests()) != 0 {
			t.Errorf("secondary endpoint must not be contacted, got %d requests", len(secondary.Requests()))
		}
	})
}

func TestFetcher_FetchSwaps_FallsBackToThirdEndpoint(t *testing.T) {
	forEachMode(t, func(t *testing.T, parallel bool) {
		down := newFakeSubgraph(t)
		down.FailKinds[QueryByOrigin] = true
		down.FailKinds[QueryBySender] = true
		down.FailKinds[QueryByRecipient] = true

		malformed := newFakeSubgraph(t)
		malformed.RawBody = `{"data": {"swaps": [`

		good := healthyFake(t, "good")

		f := newTestFetcher(parallel, down.URL(), malformed.URL(), good.URL())
		sets, err := f.FetchSwaps(context.Background(), []string{"0xabc"}, 1700000000, 1700086399)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if sets.Endpoint != good.URL() {
			t.Errorf("expected third endpoint, got %s", sets.Endpoint)
		}
		if sets.ByRecipient[0].ID != "good-3" {
			t.Errorf("expected data from third endpoint, got %s", sets.ByRecipient[0].ID)
		}
		if len(down.Requests()) == 0 || len(malformed.Requests()) == 0 {
			t.Error("expected failing endpoints to be attempted first")
		}
	})
}

func TestFetcher_FetchSwaps_PartialEndpointIsDiscarded(t *testing.T) {
	forEachMode(t, func(t *testing.T, parallel bool) {
		partial := healthyFake(t, "partial")
		partial.FailKinds[QueryBySender] = true

		backup := healthyFake(t, "backup")

		f := newTestFetcher(parallel, partial.URL(), backup.URL())
		sets, err := f.FetchSwaps(context.Background(), []string{"0xabc"}, 1700000000, 1700086399)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if sets.Endpoint != backup.URL() {
			t.Errorf("expected backup endpoint, got %s", sets.Endpoint)
		}
		for _, list := range [][]string{ids(sets.ByOrigin), ids(sets.BySender), ids(sets.ByRecipient)} {
			for _, id := range list {
				if !strings.HasPrefix(id, "backup") {
					t.Errorf("record %s leaked from the discarded endpoint", id)
				}
			}
		}
	})
}

func TestFetcher_FetchSwaps_AllEndpointsFail(t *testing.T) {
	forEachMode(t, func(t *testing.T, parallel bool) {
		first := newFakeSubgraph(t)
		first.FailKinds[QueryByOrigin] = true
		second := newFakeSubgraph(t)
		second.FailKinds[QueryByRecipient] = true

		f := newTestFetcher(parallel, first.URL(), second.URL())
		sets, err := f.FetchSwaps(context.Background(), []string{"0xabc"}, 1700000000, 1700086399)
		if sets != nil {
			t.Error("expected nil result")
		}
		if !errors.Is(err, ErrAllEndpointsFailed) {
			t.Fatalf("expected ErrAllEndpointsFailed, got %v", err)
		}

		var allErr *AllEndpointsFailedError
		if !errors.As(err, &allErr) {
			t.Fatalf("expected AllEndpointsFailedError, got %T", err)
		}
		if allErr.Tried != 2 {
			t.Errorf("expected 2 endpoints tried, got %d", allErr.Tried)
		}

		var endpointErr *EndpointError
		if !errors.As(err, &endpointErr) {
			t.Fatalf("expected last error to be an EndpointError, got %v", allErr.Last)
		}
		if endpointErr.Endpoint != second.URL() {
			t.Errorf("expected last error from second endpoint, got %s", endpointErr.Endpoint)
		}

		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Fatal("expected underlying RequestError")
		}
		if reqErr.Query != QueryByRecipient {
			t.Errorf("expected recipient query to be the cause, got %s", reqErr.Query)
		}
	})
}

func TestFetcher_FetchSwaps_NoEndpoints(t *testing.T) {
	f := newTestFetcher(true)
	_, err := f.FetchSwaps(context.Background(), []string{"0xabc"}, 0, 1)
	if !errors.Is(err, ErrAllEndpointsFailed) {
		t.Fatalf("expected ErrAllEndpointsFailed, got %v", err)
	}
	if !errors.Is(err, errNoEndpoints) {
		t.Errorf("expected errNoEndpoints as cause, got %v", err)
	}
}

func TestFetcher_FetchSwaps_CancelledContext(t *testing.T) {
	fake := healthyFake(t, "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newTestFetcher(true, fake.URL())
	_, err := f.FetchSwaps(ctx, []string{"0xabc"}, 0, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrAllEndpointsFailed) {
		t.Error("cancellation must not be reported as endpoint failure")
	}
}

func TestFetcher_FetchSwaps_CancelledMidRequest(t *testing.T) {
	slow := healthyFake(t, "slow")
	slow.Delay = 300 * time.Millisecond
	backup := healthyFake(t, "backup")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := newTestFetcher(false, slow.URL(), backup.URL())
	_, err := f.FetchSwaps(ctx, []string{"0xabc"}, 0, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected caller deadline, got %v", err)
	}
	if errors.Is(err, ErrAllEndpointsFailed) {
		t.Error("caller deadline must not be reported as endpoint failure")
	}
	if n := len(backup.Requests()); n != 0 {
		t.Errorf("expected no fallback after caller deadline, backup saw %d requests", n)
	}
}
