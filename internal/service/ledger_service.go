package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/roomies/internal/calculator"
	"github.com/mmynk/roomies/internal/metrics"
	"github.com/mmynk/roomies/internal/models"
	"github.com/mmynk/roomies/internal/receipt"
	"github.com/mmynk/roomies/internal/storage"
	"github.com/mmynk/roomies/pkg/api"
	"github.com/mmynk/roomies/pkg/api/apiconnect"
)

const (
	defaultScanTimeout     = 45 * time.Second
	defaultScanConcurrency = 3
	defaultMaxImageBytes   = 10 << 20
)

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler
	store   storage.Store
	scanner receipt.Scanner
	metrics *metrics.Metrics
	now     func() time.Time

	scanTimeout   time.Duration
	maxImageBytes int64
	scanSem       chan struct{}
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithScanner enables receipt scanning. Without it ScanReceipt reports
// Unavailable.
func WithScanner(scanner receipt.Scanner) Option {
	return func(s *LedgerService) { s.scanner = scanner }
}

// WithMetrics records domain counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LedgerService) { s.metrics = m }
}

// WithClock overrides the clock used to default expense dates.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// WithScanLimits bounds each scan's duration, image size and the number of
// scans in flight. Non-positive values keep the defaults.
func WithScanLimits(timeout time.Duration, maxImageBytes int64, concurrency int) Option {
	return func(s *LedgerService) {
		if timeout > 0 {
			s.scanTimeout = timeout
		}
		if maxImageBytes > 0 {
			s.maxImageBytes = maxImageBytes
		}
		if concurrency > 0 {
			s.scanSem = make(chan struct{}, concurrency)
		}
	}
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:         store,
		now:           time.Now,
		scanTimeout:   defaultScanTimeout,
		maxImageBytes: defaultMaxImageBytes,
		scanSem:       make(chan struct{}, defaultScanConcurrency),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddRoommate adds a new member to the ledger.
func (s *LedgerService) AddRoommate(ctx context.Context, req *connect.Request[api.AddRoommateRequest]) (*connect.Response[api.AddRoommateResponse], error) {
	slog.Info("AddRoommate request received", "name", req.Msg.Name)

	name, err := validateRoommateName(req.Msg.Name)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	user := &models.User{Name: name}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("AddRoommate failed", "error", err)
		return nil, storeError(err)
	}
	s.metrics.RoommateAdded()
	slog.Info("Roommate added", "user_id", user.ID, "name", user.Name)

	return connect.NewResponse(&api.AddRoommateResponse{User: toAPIUser(*user)}), nil
}

// AddExpense records a new expense as the most recent one.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"description", req.Msg.Description,
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
	)

	ledger, err := s.store.Snapshot(ctx)
	if err != nil {
		slog.Error("AddExpense failed", "error", err)
		return nil, storeError(err)
	}

	expense, err := validateExpense(req.Msg, ledger, s.now().Format(models.DateLayout))
	if err != nil {
		s.metrics.ExpenseRejected()
		slog.Debug("Expense rejected", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.CreateExpense(ctx, &expense); err != nil {
		slog.Error("AddExpense failed", "error", err)
		return nil, storeError(err)
	}
	s.metrics.ExpenseAdded()
	slog.Info("Expense added",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"category", expense.Category,
		"paid_by", expense.PaidBy,
		"split_count", len(expense.SplitWith),
	)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetLedger returns the members, expenses and freshly computed balances.
func (s *LedgerService) GetLedger(ctx context.Context, req *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error) {
	slog.Debug("GetLedger request received")

	ledger, err := s.store.Snapshot(ctx)
	if err != nil {
		slog.Error("GetLedger failed", "error", err)
		return nil, storeError(err)
	}

	balances, err := calculator.Summarize(ledger.Users, ledger.Expenses)
	if err != nil {
		// The store only holds validated expenses, so this means corrupted state.
		slog.Error("GetLedger failed - calculation error", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	debts := calculator.SimplifyDebts(balances)

	resp := &api.GetLedgerResponse{
		Users:       make([]*api.User, len(ledger.Users)),
		Expenses:    make([]*api.Expense, len(ledger.Expenses)),
		Balances:    make([]*api.MemberBalance, len(balances)),
		Debts:       make([]*api.DebtEdge, len(debts)),
		Outstanding: calculator.Outstanding(balances),
		Categories:  make([]string, len(models.Categories)),
	}
	for i, u := range ledger.Users {
		resp.Users[i] = toAPIUser(u)
	}
	for i, e := range ledger.Expenses {
		resp.Expenses[i] = toAPIExpense(e)
	}
	for i, b := range balances {
		resp.Balances[i] = &api.MemberBalance{
			UserID:     b.UserID,
			Name:       b.Name,
			NetBalance: b.NetBalance,
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
			Status:     string(b.Status),
		}
	}
	for i, d := range debts {
		resp.Debts[i] = &api.DebtEdge{From: d.From, To: d.To, Amount: d.Amount}
	}
	for i, c := range models.Categories {
		resp.Categories[i] = c.String()
	}

	slog.Debug("GetLedger successful",
		"users", len(resp.Users),
		"expenses", len(resp.Expenses),
		"debts", len(resp.Debts),
	)
	return connect.NewResponse(resp), nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, storage.ErrDuplicateID):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func toAPIUser(u models.User) *api.User {
	return &api.User{ID: u.ID, Name: u.Name}
}

func toAPIExpense(e models.Expense) *api.Expense {
	return &api.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category.String(),
		Date:        e.Date,
		PaidBy:      e.PaidBy,
		SplitWith:   append([]string(nil), e.SplitWith...),
		CreatedAt:   e.CreatedAt,
	}
}
