package closingsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/gal-ch/green-market/internal/dal/interfaces/istorerepo"
	"github.com/gal-ch/green-market/internal/service/models/order"
	"github.com/gal-ch/green-market/internal/service/models/report"
	"github.com/gal-ch/green-market/internal/service/models/store"
)

// Outcome statuses for one store unit of a day-closing run.
const (
	StatusClosed  = "closed"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Pipeline stages reported on failure.
const (
	StageQuery     = "query"
	StageAggregate = "aggregate"
	StageExport    = "export"
	StageSend      = "send"
)

// StoreOutcome is the result of one store's closing unit.
type StoreOutcome struct {
	StoreID int64  `json:"storeId"`
	Status  string `json:"status"`
	Stage   string `json:"stage,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CloseDayResult is the manifest returned by CloseDay. Completed reports
// whether the trailing bulk completion went through.
type CloseDayResult struct {
	Outcomes        []StoreOutcome `json:"outcomes"`
	Completed       bool           `json:"completed"`
	OrdersCompleted int64          `json:"ordersCompleted"`
}

type orderService interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	SetCompleted(ctx context.Context, storeIDs []int64, accountID int64) (int64, error)
}

type mailer interface {
	SendStoreReport(ctx context.Context, to string, storeName string, rep *report.Report, attachment []byte) error
}

type encoder interface {
	Report(rep *report.Report) ([]byte, error)
}

// ClosingService runs the end-of-day closing pipeline: per store, aggregate
// the open orders into a report, email it to the store manager with the xlsx
// artifact attached, then mark the orders completed in one trailing bulk
// update.
type ClosingService struct {
	storeRepo istorerepo.IStoreRepository
	orders    orderService
	mailer    mailer
	encoder   encoder

	unitTimeout    time.Duration
	maxConcurrency int

	// completeOnlySent restricts the trailing completion to stores whose
	// unit finished. The default (false) keeps the legacy behavior of
	// completing every requested store regardless of per-unit outcome.
	completeOnlySent bool
}

// option is a function that configures the ClosingService.
type option func(*ClosingService)

// MustNewClosingService creates a new ClosingService configured from the
// closing.* settings.
func MustNewClosingService(opts ...option) *ClosingService {
	unitTimeout := viper.GetDuration("closing.unit_timeout")
	if unitTimeout == 0 {
		unitTimeout = 2 * time.Minute
	}

	maxConcurrency := viper.GetInt("closing.max_concurrency")
	if maxConcurrency == 0 {
		maxConcurrency = 8
	}

	s := &ClosingService{
		unitTimeout:      unitTimeout,
		maxConcurrency:   maxConcurrency,
		completeOnlySent: viper.GetBool("closing.complete_only_sent"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithStoreRepository sets the store repository for the ClosingService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithStoreRepository(repo istorerepo.IStoreRepository) option {
	return func(s *ClosingService) {
		s.storeRepo = repo
	}
}

// WithOrderService sets the order service for the ClosingService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderService(orders orderService) option {
	return func(s *ClosingService) {
		s.orders = orders
	}
}

// WithMailer sets the mailer for the ClosingService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMailer(m mailer) option {
	return func(s *ClosingService) {
		s.mailer = m
	}
}

// WithEncoder sets the report encoder for the ClosingService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEncoder(e encoder) option {
	return func(s *ClosingService) {
		s.encoder = e
	}
}

// CloseDay closes the day for the given stores of an account. Store ids not
// belonging to the account are silently excluded. Each store is processed as
// an independent unit; a unit's failure never aborts its siblings or the
// trailing bulk completion. CloseDay itself never fails: every error ends up
// in the returned manifest and the log.
func (s *ClosingService) CloseDay(ctx context.Context, accountID int64, storeIDs []int64) CloseDayResult {
	tracer := otel.Tracer("green-market")
	ctx, span := tracer.Start(ctx, "CloseDay")
	span.SetAttributes(
		attribute.Int64("account.id", accountID),
		attribute.Int("stores.requested", len(storeIDs)),
	)
	defer span.End()

	stores, err := s.storeRepo.Query(ctx, &store.QueryStoresModel{
		Ids:       storeIDs,
		AccountID: accountID,
	})
	if err != nil {
		slog.Error("Failed to resolve stores for day closing",
			"account_id", accountID, "error", err)

		outcomes := make([]StoreOutcome, 0, len(storeIDs))
		for _, id := range storeIDs {
			outcomes = append(outcomes, StoreOutcome{
				StoreID: id,
				Status:  StatusFailed,
				Stage:   StageQuery,
				Error:   err.Error(),
			})
		}

		return CloseDayResult{Outcomes: outcomes}
	}

	outcomes := make([]StoreOutcome, len(stores))

	g := &errgroup.Group{}
	g.SetLimit(s.maxConcurrency)

	for i, st := range stores {
		g.Go(func() error {
			outcomes[i] = s.closeStore(ctx, st)

			return nil
		})
	}
	g.Wait() //nolint:errcheck // units never return errors

	result := CloseDayResult{Outcomes: outcomes}

	completeIDs := make([]int64, 0, len(stores))
	for i, st := range stores {
		if s.completeOnlySent && outcomes[i].Status == StatusFailed {
			continue
		}
		completeIDs = append(completeIDs, st.ID)
	}

	if len(completeIDs) > 0 {
		count, err := s.orders.SetCompleted(ctx, completeIDs, accountID)
		if err != nil {
			slog.Error("Failed to mark orders completed after day closing",
				"account_id", accountID, "store_ids", completeIDs, "error", err)

			return result
		}
		result.Completed = true
		result.OrdersCompleted = count
	}

	slog.Info("Day closing finished",
		"account_id", accountID,
		"stores_requested", len(storeIDs),
		"stores_processed", len(stores),
		"orders_completed", result.OrdersCompleted,
	)

	return result
}

// closeStore runs one store's unit: query open orders, compute the window,
// aggregate, export and send. An empty open set skips the store entirely.
func (s *ClosingService) closeStore(ctx context.Context, st store.Store) StoreOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.unitTimeout)
	defer cancel()

	tracer := otel.Tracer("green-market")
	ctx, span := tracer.Start(ctx, "CloseStore")
	span.SetAttributes(attribute.Int64("store.id", st.ID))
	defer span.End()

	open := true
	openOrders, err := s.orders.GetOrders(ctx, &order.QueryOrdersModel{
		StoreIds:  []int64{st.ID},
		AccountID: st.AccountID,
		Open:      &open,
	})
	if err != nil {
		return s.failed(st, StageQuery, err)
	}

	if len(openOrders) == 0 {
		slog.Info("Store has no open orders, skipping", "store_id", st.ID)

		return StoreOutcome{StoreID: st.ID, Status: StatusSkipped}
	}

	startAt, endAt, err := report.Window(openOrders)
	if err != nil {
		return s.failed(st, StageAggregate, err)
	}

	// Re-fetch inside the window so the report covers everything the window
	// spans, not just the snapshot that defined it.
	windowOrders, err := s.orders.GetOrders(ctx, &order.QueryOrdersModel{
		StoreIds:    []int64{st.ID},
		AccountID:   st.AccountID,
		CreatedFrom: startAt,
		CreatedTo:   endAt,
	})
	if err != nil {
		return s.failed(st, StageQuery, err)
	}

	rep, err := report.Aggregate(windowOrders)
	if err != nil {
		return s.failed(st, StageAggregate, err)
	}

	artifact, err := s.encoder.Report(rep)
	if err != nil {
		return s.failed(st, StageExport, err)
	}

	if err := s.mailer.SendStoreReport(ctx, st.ManagerEmail, st.Name, rep, artifact); err != nil {
		return s.failed(st, StageSend, err)
	}

	return StoreOutcome{StoreID: st.ID, Status: StatusClosed}
}

func (s *ClosingService) failed(st store.Store, stage string, err error) StoreOutcome {
	slog.Error("Store closing unit failed",
		"store_id", st.ID, "stage", stage, "error", err)

	return StoreOutcome{
		StoreID: st.ID,
		Status:  StatusFailed,
		Stage:   stage,
		Error:   err.Error(),
	}
}
