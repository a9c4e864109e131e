package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
	"github.com/bimakw/dex-volume-checker/internal/domain/repositories"
)

// ErrMock is a generic error returned by mocks configured to fail
var ErrMock = errors.New("mock error")

type MockCall struct {
	Method string
	Args   []interface{}
}

// MockSwapFetcher is a mock implementation of services.SwapFetcher
type MockSwapFetcher struct {
	mu sync.Mutex

	// Sets is returned when FetchSwapsFunc is nil
	Sets *entities.SwapSets

	FetchSwapsFunc func(ctx context.Context, addresses []string, start, end int64) (*entities.SwapSets, error)

	Calls []MockCall
}

func NewMockSwapFetcher(sets *entities.SwapSets) *MockSwapFetcher {
	return &MockSwapFetcher{
		Sets:  sets,
		Calls: make([]MockCall, 0),
	}
}

func (m *MockSwapFetcher) FetchSwaps(ctx context.Context, addresses []string, start, end int64) (*entities.SwapSets, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "FetchSwaps", Args: []interface{}{addresses, start, end}})
	m.mu.Unlock()

	if m.FetchSwapsFunc != nil {
		return m.FetchSwapsFunc(ctx, addresses, start, end)
	}
	if m.Sets == nil {
		return &entities.SwapSets{Endpoint: "mock"}, nil
	}
	return m.Sets, nil
}

// CallCount returns the number of FetchSwaps calls
func (m *MockSwapFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Ensure MockReportRepository implements ReportRepository
var _ repositories.ReportRepository = (*MockReportRepository)(nil)

// MockReportRepository is an in-memory implementation of ReportRepository
type MockReportRepository struct {
	mu   sync.RWMutex
	rows map[string]map[string]entities.WalletReportRow // date -> wallet -> row

	// Function hooks for custom behavior
	SaveReportFunc func(ctx context.Context, report *entities.VolumeReport) error
	GetByDateFunc  func(ctx context.Context, date time.Time) ([]entities.WalletReportRow, error)
	GetWalletFunc  func(ctx context.Context, date time.Time, wallet string) (*entities.WalletReportRow, error)
	ListDatesFunc  func(ctx context.Context, limit int) ([]time.Time, error)

	// Call tracking
	Calls []MockCall
}

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{
		rows:  make(map[string]map[string]entities.WalletReportRow),
		Calls: make([]MockCall, 0),
	}
}

func dayKey(t time.Time) string {
	return t.UTC().Format(entities.DateLayout)
}

func (m *MockReportRepository) record(method string, args ...interface{}) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
	m.mu.Unlock()
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report *entities.VolumeReport) error {
	m.record("SaveReport", report)

	if m.SaveReportFunc != nil {
		return m.SaveReportFunc(ctx, report)
	}

	m.AddRows(report.Rows()...)
	return nil
}

func (m *MockReportRepository) GetByDate(ctx context.Context, date time.Time) ([]entities.WalletReportRow, error) {
	m.record("GetByDate", date)

	if m.GetByDateFunc != nil {
		return m.GetByDateFunc(ctx, date)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]entities.WalletReportRow, 0)
	for _, row := range m.rows[dayKey(date)] {
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Wallet < result[j].Wallet })
	return result, nil
}

func (m *MockReportRepository) GetWallet(ctx context.Context, date time.Time, wallet string) (*entities.WalletReportRow, error) {
	m.record("GetWallet", date, wallet)

	if m.GetWalletFunc != nil {
		return m.GetWalletFunc(ctx, date, wallet)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[dayKey(date)][wallet]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *MockReportRepository) ListDates(ctx context.Context, limit int) ([]time.Time, error) {
	m.record("ListDates", limit)

	if m.ListDatesFunc != nil {
		return m.ListDatesFunc(ctx, limit)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	dates := make([]time.Time, 0, len(m.rows))
	for key := range m.rows {
		d, _ := time.ParseInLocation(entities.DateLayout, key, time.UTC)
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	if limit > 0 && len(dates) > limit {
		dates = dates[:limit]
	}
	return dates, nil
}

// AddRows adds rows to the mock store, replacing rows with the same day and wallet
func (m *MockReportRepository) AddRows(rows ...entities.WalletReportRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		key := dayKey(row.ReportDate)
		if m.rows[key] == nil {
			m.rows[key] = make(map[string]entities.WalletReportRow)
		}
		m.rows[key][row.Wallet] = row
	}
}

// CallsTo returns the tracked calls of one method
func (m *MockReportRepository) CallsTo(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []MockCall
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears all stored data and calls
func (m *MockReportRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[string]map[string]entities.WalletReportRow)
	m.Calls = make([]MockCall, 0)
}

// MockHealthChecker is a mock implementation of handlers.HealthChecker
type MockHealthChecker struct {
	mu sync.Mutex

	Error error
	Calls int
}

func NewMockHealthChecker(healthy bool) *MockHealthChecker {
	m := &MockHealthChecker{}
	if !healthy {
		m.Error = errors.New("health check failed")
	}
	return m
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Error
}
