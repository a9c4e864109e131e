package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/dex-volume-checker/internal/application/services"
	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
	"github.com/bimakw/dex-volume-checker/internal/infrastructure/subgraph"
	"github.com/bimakw/dex-volume-checker/internal/testutil"
)

func setupCheckHandlerTest(sets *entities.SwapSets) (*chi.Mux, *testutil.MockSwapFetcher, *testutil.MockReportRepository) {
	fetcher := testutil.NewMockSwapFetcher(sets)
	repo := testutil.NewMockReportRepository()
	logger := zap.NewNop()

	service := services.NewVolumeService(fetcher, repo, nil, logger)
	handler := NewCheckHandler(service, 10000, logger)
	handler.now = func() time.Time { return testutil.TestDay.Add(36 * time.Hour) }

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, fetcher, repo
}

func postCheck(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/checks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body["error"]
}

func TestCheckHandler_RunCheck_Success(t *testing.T) {
	sets := &entities.SwapSets{
		Endpoint: "https://primary.example/graphql",
		ByOrigin: []entities.SwapRecord{
			testutil.CreateTestSwap(testutil.WithID("1"), testutil.WithAmountUSD(6000)),
			testutil.CreateTestSwap(testutil.WithID("2"), testutil.WithAmountUSD(1)),
		},
	}
	r, fetcher, repo := setupCheckHandlerTest(sets)

	rec := postCheck(r, fmt.Sprintf(`{"addresses":[%q,%q],"date":"2024-05-01","threshold_usd":5000}`,
		testutil.AliceAddress, testutil.BobAddress))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response services.VolumeReportResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Data.Date != "2024-05-01" {
		t.Errorf("expected date 2024-05-01, got %s", response.Data.Date)
	}
	if response.Data.PassCount != 1 {
		t.Errorf("expected 1 passing wallet, got %d", response.Data.PassCount)
	}
	if len(response.Data.Wallets) != 2 {
		t.Fatalf("expected 2 wallets, got %d", len(response.Data.Wallets))
	}
	alice := response.Data.Wallets[0]
	if alice.Wallet != testutil.AliceAddress || alice.SwapsExecution != 2 || alice.VolumeExecutionUSD != 6001 {
		t.Errorf("unexpected metrics for alice: %+v", alice)
	}
	if response.Data.Wallets[1].Pass {
		t.Error("expected bob not to pass")
	}

	if fetcher.CallCount() != 1 {
		t.Errorf("expected 1 fetch, got %d", fetcher.CallCount())
	}
	if len(repo.CallsTo("SaveReport")) != 1 {
		t.Error("expected report to be persisted")
	}
}

func TestCheckHandler_RunCheck_Defaults(t *testing.T) {
	r, fetcher, _ := setupCheckHandlerTest(&entities.SwapSets{Endpoint: "e"})

	rec := postCheck(r, fmt.Sprintf(`{"addresses":[%q]}`, testutil.AliceAddress))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response services.VolumeReportResponse
	json.NewDecoder(rec.Body).Decode(&response)

	// now is 2024-05-02 12:00, so the default day is 2024-05-01
	if response.Data.Date != "2024-05-01" {
		t.Errorf("expected previous UTC day, got %s", response.Data.Date)
	}
	if response.Data.ThresholdUSD != 10000 {
		t.Errorf("expected default threshold, got %f", response.Data.ThresholdUSD)
	}

	start := fetcher.Calls[0].Args[1].(int64)
	if start != testutil.TestDay.Unix() {
		t.Errorf("expected window start %d, got %d", testutil.TestDay.Unix(), start)
	}
}

func TestCheckHandler_RunCheck_BadRequests(t *testing.T) {
	r, fetcher, _ := setupCheckHandlerTest(&entities.SwapSets{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"addresses":`},
		{"no addresses", `{"addresses":[]}`},
		{"invalid address", `{"addresses":["0x123"]}`},
		{"missing 0x prefix", fmt.Sprintf(`{"addresses":[%q]}`, testutil.AliceAddress[2:])},
		{"invalid date", fmt.Sprintf(`{"addresses":[%q],"date":"05/01/2024"}`, testutil.AliceAddress)},
		{"negative threshold", fmt.Sprintf(`{"addresses":[%q],"threshold_usd":-1}`, testutil.AliceAddress)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCheck(r, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
			if decodeError(t, rec) == "" {
				t.Error("expected error message")
			}
		})
	}

	if fetcher.CallCount() != 0 {
		t.Errorf("expected no fetch for bad requests, got %d", fetcher.CallCount())
	}
}

func TestCheckHandler_RunCheck_TooManyAddresses(t *testing.T) {
	r, _, _ := setupCheckHandlerTest(&entities.SwapSets{})

	addrs := make([]string, maxCheckAddresses+1)
	for i := range addrs {
		addrs[i] = fmt.Sprintf("0x%040x", i)
	}
	body, _ := json.Marshal(CheckRequest{Addresses: addrs})

	rec := postCheck(r, string(body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestCheckHandler_RunCheck_FetchErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{"all endpoints failed", &subgraph.AllEndpointsFailedError{Tried: 3, Last: testutil.ErrMock}, http.StatusBadGateway},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unexpected", testutil.ErrMock, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fetcher, repo := setupCheckHandlerTest(nil)
			fetcher.FetchSwapsFunc = func(ctx context.Context, addresses []string, start, end int64) (*entities.SwapSets, error) {
				return nil, tt.err
			}

			rec := postCheck(r, fmt.Sprintf(`{"addresses":[%q]}`, testutil.AliceAddress))
			if rec.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if decodeError(t, rec) == "" {
				t.Error("expected error message")
			}
			if len(repo.CallsTo("SaveReport")) != 0 {
				t.Error("expected nothing persisted after a failed fetch")
			}
		})
	}
}
