package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/sangkips/ventapett-pos/internal/config"
	"github.com/sangkips/ventapett-pos/internal/domain/cashout"
	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/logger"
	"github.com/sangkips/ventapett-pos/pkg/metrics"
)

// ViewState is where a cashout view is in its lifecycle.
type ViewState string

const (
	ViewClosed  ViewState = "CLOSED"
	ViewLoading ViewState = "LOADING"
	ViewReady   ViewState = "READY"
	ViewSaving  ViewState = "SAVING"
)

// CashoutSettings configures the cashout views.
type CashoutSettings struct {
	BaseFloat int64
	Location  *time.Location
	// FetchMode is config.FetchModeSnapshot or config.FetchModePerDate.
	FetchMode string
	ViewTTL   time.Duration
}

// SellerDirectory resolves a seller id to a staff record.
type SellerDirectory interface {
	FindStaff(ctx context.Context, id string) (*entity.StaffUser, error)
}

// CashoutReport is the state of a cashout view as shown to the user.
type CashoutReport struct {
	State          ViewState                   `json:"state"`
	Filter         entity.CashoutFilter        `json:"filter"`
	Summary        entity.CashoutSummary       `json:"summary"`
	Reconciliation entity.ReconciliationResult `json:"reconciliation"`
	Denominations  []entity.DenominationLine   `json:"denominations"`
	Notice         string                      `json:"notice,omitempty"`
	FetchedAt      *time.Time                  `json:"fetched_at,omitempty"`
}

type cashoutView struct {
	mu        sync.Mutex
	principal entity.Principal
	state     ViewState
	filter    entity.CashoutFilter
	ledger    *DenominationLedger

	// fetchSeq numbers fetches; a response whose number is no longer
	// current is dropped.
	fetchSeq  uint64
	queryDate string
	loaded    bool
	fetchedAt *time.Time
	snapshot  []entity.NormalizedTransaction
	summary   entity.CashoutSummary
	notice    string
}

// CashoutService runs one cashout view per user: it fetches the day's
// sales, filters them, tracks the drawer count and closes the daily box.
type CashoutService struct {
	sales    repository.CashoutGateway
	sellers  SellerDirectory
	keyspace repository.Keyspace
	settings CashoutSettings
	views    *cache.Cache
	metrics  *metrics.Metrics
	log      *logrus.Logger
}

// NewCashoutService creates a new cashout service. sellers may be nil, in
// which case a selected seller is matched by id only.
func NewCashoutService(
	sales repository.CashoutGateway,
	sellers SellerDirectory,
	keyspace repository.Keyspace,
	settings CashoutSettings,
	m *metrics.Metrics,
	log *logrus.Logger,
) *CashoutService {
	if settings.Location == nil {
		settings.Location = time.Local
	}
	if settings.ViewTTL <= 0 {
		settings.ViewTTL = 30 * time.Minute
	}
	if settings.FetchMode != config.FetchModePerDate {
		settings.FetchMode = config.FetchModeSnapshot
	}
	return &CashoutService{
		sales:    sales,
		sellers:  sellers,
		keyspace: keyspace,
		settings: settings,
		views:    cache.New(settings.ViewTTL, settings.ViewTTL),
		metrics:  m,
		log:      log,
	}
}

// Today is the current calendar date in the store timezone.
func (s *CashoutService) Today() string {
	return cashout.LocalDate(time.Now(), s.settings.Location)
}

// Open starts a view for p and fetches its sales. The denomination count
// picks up where it was left. An existing view is replaced unless it is saving.
func (s *CashoutService) Open(ctx context.Context, p entity.Principal, filter entity.CashoutFilter) (*CashoutReport, error) {
	if existing, ok := s.lookup(p.UserID); ok {
		existing.mu.Lock()
		saving := existing.state == ViewSaving
		existing.mu.Unlock()
		if saving {
			return nil, apperror.NewConflictError("The cashout is being saved")
		}
	}

	filter, err := s.scope(ctx, p, filter)
	if err != nil {
		return nil, err
	}
	ledger, err := LoadLedger(ctx, s.keyspace(p.UserID), entity.CashoutCountsKey, s.log)
	if err != nil {
		logger.LogError(s.log, "CashoutService", "Open", "load ledger", p.UserID, err)
		return nil, err
	}

	v := &cashoutView{
		principal: p,
		state:     ViewLoading,
		filter:    filter,
		ledger:    ledger,
	}
	s.views.SetDefault(p.UserID, v)

	s.log.WithFields(logrus.Fields{"user_id": p.UserID, "date": filter.Date, "seller_id": filter.SellerID}).Info("cashout opened")
	return s.load(ctx, v), nil
}

// SetFilter changes the date or seller. In snapshot mode the fetched sales
// are filtered again locally; in per-date mode a new date is fetched.
func (s *CashoutService) SetFilter(ctx context.Context, p entity.Principal, filter entity.CashoutFilter) (*CashoutReport, error) {
	v, err := s.view(p.UserID)
	if err != nil {
		return nil, err
	}
	filter, err = s.scope(ctx, p, filter)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	if v.state == ViewSaving {
		v.mu.Unlock()
		return nil, apperror.NewConflictError("The cashout is being saved")
	}
	v.filter = filter

	perDate := s.perDate()
	switch {
	case v.state == ViewLoading && (!perDate || v.queryDate == filter.Date):
		// the in-flight fetch applies the new filter when it lands
		report := v.report(s.settings.BaseFloat)
		v.mu.Unlock()
		return report, nil
	case !v.loaded || (perDate && v.queryDate != filter.Date):
		v.mu.Unlock()
		return s.load(ctx, v), nil
	}

	v.recompute(s.settings.Location)
	v.state = ViewReady
	report := v.report(s.settings.BaseFloat)
	v.mu.Unlock()
	return report, nil
}

// Refresh fetches the sales again.
func (s *CashoutService) Refresh(ctx context.Context, p entity.Principal) (*CashoutReport, error) {
	v, err := s.view(p.UserID)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	saving := v.state == ViewSaving
	v.mu.Unlock()
	if saving {
		return nil, apperror.NewConflictError("The cashout is being saved")
	}
	return s.load(ctx, v), nil
}

// Report returns the view as it stands.
func (s *CashoutService) Report(_ context.Context, p entity.Principal) (*CashoutReport, error) {
	v, err := s.view(p.UserID)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.report(s.settings.BaseFloat), nil
}

// SetCount records the number of pieces of one denomination.
func (s *CashoutService) SetCount(ctx context.Context, p entity.Principal, denomination int64, count int) (*CashoutReport, error) {
	v, err := s.editable(p.UserID)
	if err != nil {
		return nil, err
	}
	if err := v.ledger.Set(ctx, denomination, count); err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.report(s.settings.BaseFloat), nil
}

// ResetCounts zeroes the drawer count.
func (s *CashoutService) ResetCounts(ctx context.Context, p entity.Principal) (*CashoutReport, error) {
	v, err := s.editable(p.UserID)
	if err != nil {
		return nil, err
	}
	if err := v.ledger.Reset(ctx); err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.report(s.settings.BaseFloat), nil
}

// Save closes the daily box upstream. The count is cleared and the view
// closed only once the upstream accepts it; on failure the view is ready
// again with the count intact.
func (s *CashoutService) Save(ctx context.Context, p entity.Principal) (*entity.ReconciliationResult, error) {
	v, err := s.view(p.UserID)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	switch {
	case v.state == ViewSaving:
		v.mu.Unlock()
		return nil, apperror.NewConflictError("The cashout is already being saved")
	case v.state != ViewReady:
		v.mu.Unlock()
		return nil, apperror.NewConflictError("Sales are still loading")
	case !v.loaded:
		v.mu.Unlock()
		return nil, apperror.NewConflictError("Sales could not be loaded; refresh before saving")
	}
	result := cashout.Reconcile(v.summary, v.filter, s.settings.BaseFloat, v.ledger.Counts())
	v.state = ViewSaving
	v.mu.Unlock()

	if err := s.sales.CloseDailyBox(ctx, result); err != nil {
		v.mu.Lock()
		v.state = ViewReady
		v.mu.Unlock()
		logger.LogError(s.log, "CashoutService", "Save", "close daily box", p.UserID, err)
		return nil, apperror.WithFallback(err, "Could not save the cashout")
	}

	if err := v.ledger.Reset(ctx); err != nil {
		logger.LogError(s.log, "CashoutService", "Save", "reset ledger", p.UserID, err)
	}
	v.mu.Lock()
	v.state = ViewClosed
	v.mu.Unlock()
	s.views.Delete(p.UserID)

	s.metrics.CashoutClosed(result.Status.String())
	s.log.WithFields(logrus.Fields{
		"user_id":  p.UserID,
		"date":     result.Date,
		"status":   result.Status.String(),
		"variance": result.Variance,
	}).Info("cashout saved")
	return &result, nil
}

// Close discards the view. The drawer count stays in the store.
func (s *CashoutService) Close(p entity.Principal) {
	if v, ok := s.lookup(p.UserID); ok {
		v.mu.Lock()
		v.state = ViewClosed
		v.mu.Unlock()
	}
	s.views.Delete(p.UserID)
}

func (s *CashoutService) perDate() bool {
	return s.settings.FetchMode == config.FetchModePerDate
}

// scope validates the filter and pins non-admins to themselves.
func (s *CashoutService) scope(ctx context.Context, p entity.Principal, filter entity.CashoutFilter) (entity.CashoutFilter, error) {
	filter.Date = strings.TrimSpace(filter.Date)
	filter.SellerID = strings.TrimSpace(filter.SellerID)
	if filter.Date != "" && !cashout.ValidDate(filter.Date) {
		return filter, apperror.NewFieldError("date", "Date must be in YYYY-MM-DD format")
	}

	if !p.IsAdmin() {
		return entity.CashoutFilter{Date: filter.Date, SellerID: p.UserID, SellerName: p.Name}, nil
	}
	if filter.StoreWide() {
		filter.SellerName = ""
		return filter, nil
	}
	if s.sellers != nil {
		seller, err := s.sellers.FindStaff(ctx, filter.SellerID)
		if err != nil {
			s.log.WithError(err).WithField("seller_id", filter.SellerID).Warn("seller lookup failed, matching by id only")
		} else if seller != nil {
			filter.SellerName = seller.Name
		}
	}
	return filter, nil
}

func (s *CashoutService) load(ctx context.Context, v *cashoutView) *CashoutReport {
	v.mu.Lock()
	v.fetchSeq++
	seq := v.fetchSeq
	v.state = ViewLoading
	v.queryDate = ""
	if s.perDate() {
		v.queryDate = v.filter.Date
	}
	queryDate := v.queryDate
	principal := v.principal
	v.mu.Unlock()

	raws, err := s.fetch(ctx, principal, queryDate)

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.fetchSeq {
		s.log.WithField("user_id", principal.UserID).Debug("dropping superseded cashout fetch")
		return v.report(s.settings.BaseFloat)
	}

	now := time.Now()
	v.fetchedAt = &now
	if err != nil {
		logger.LogError(s.log, "CashoutService", "load", "fetch sales", principal.UserID, err)
		v.snapshot = nil
		v.loaded = false
		v.notice = apperror.WithFallback(err, "Could not load the day's sales").Error()
	} else {
		v.snapshot = cashout.NormalizeAll(raws, s.settings.Location)
		v.loaded = true
		v.notice = ""
	}
	v.recompute(s.settings.Location)
	v.state = ViewReady
	return v.report(s.settings.BaseFloat)
}

func (s *CashoutService) fetch(ctx context.Context, p entity.Principal, date string) ([]entity.RawSaleRecord, error) {
	if p.IsAdmin() {
		return s.sales.AdminHistory(ctx, entity.HistoryQuery{Date: date})
	}
	return s.sales.OwnSales(ctx)
}

func (s *CashoutService) lookup(userID string) (*cashoutView, bool) {
	cached, ok := s.views.Get(userID)
	if !ok {
		return nil, false
	}
	return cached.(*cashoutView), true
}

// view returns the open view and extends its lifetime.
func (s *CashoutService) view(userID string) (*cashoutView, error) {
	v, ok := s.lookup(userID)
	if !ok {
		return nil, apperror.NewConflictError("Open the cashout first")
	}
	s.views.SetDefault(userID, v)
	return v, nil
}

func (s *CashoutService) editable(userID string) (*cashoutView, error) {
	v, err := s.view(userID)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	saving := v.state == ViewSaving
	v.mu.Unlock()
	if saving {
		return nil, apperror.NewConflictError("The cashout is being saved")
	}
	return v, nil
}

// recompute derives the summary from the snapshot; callers hold v.mu.
// A seller's snapshot comes from their own sales and is only filtered by date.
func (v *cashoutView) recompute(loc *time.Location) {
	if !v.principal.IsAdmin() {
		v.summary = cashout.Summarize(cashout.FilterByDate(v.snapshot, v.filter.Date, loc))
		return
	}
	v.summary = cashout.Summarize(cashout.Apply(v.snapshot, v.filter, loc))
}

// report renders the view; callers hold v.mu.
func (v *cashoutView) report(baseFloat int64) *CashoutReport {
	counts := v.ledger.Counts()
	return &CashoutReport{
		State:          v.state,
		Filter:         v.filter,
		Summary:        v.summary,
		Reconciliation: cashout.Reconcile(v.summary, v.filter, baseFloat, counts),
		Denominations:  counts.Lines(),
		Notice:         v.notice,
		FetchedAt:      v.fetchedAt,
	}
}
