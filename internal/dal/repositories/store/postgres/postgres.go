package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/gal-ch/green-market/internal/dal/postgres"
	"github.com/gal-ch/green-market/internal/service/models/store"
)

// StoreDal represents the store data access layer model.
type StoreDal struct {
	Id           int64     `db:"id"`
	AccountId    int64     `db:"account_id"`
	Name         string    `db:"name"`
	ManagerEmail string    `db:"manager_email"`
	Status       bool      `db:"status"`
	OpeningDay   string    `db:"opening_day"`
	ClosingDay   string    `db:"closing_day"`
	OpeningHour  int       `db:"opening_hour"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ToModel converts StoreDal to the service layer Store model.
func (s *StoreDal) ToModel() *store.Store {
	return &store.Store{
		ID:           s.Id,
		AccountID:    s.AccountId,
		Name:         s.Name,
		ManagerEmail: s.ManagerEmail,
		Status:       s.Status,
		OpeningDay:   s.OpeningDay,
		ClosingDay:   s.ClosingDay,
		OpeningHour:  s.OpeningHour,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type PostgresStoreRepository struct {
	conn postgres.Querier
}

func NewPostgresStoreRepository(conn postgres.Querier) *PostgresStoreRepository {
	return &PostgresStoreRepository{
		conn: conn,
	}
}

// Query retrieves stores based on filter criteria. Ids outside the filter's
// account are silently excluded by the account condition.
func (r *PostgresStoreRepository) Query(ctx context.Context, filter *store.QueryStoresModel) ([]store.Store, error) {
	builder := sq.Select(
		"s.id",
		"s.account_id",
		"s.name",
		"s.manager_email",
		"s.status",
		"s.opening_day",
		"s.closing_day",
		"s.opening_hour",
		"s.created_at",
		"s.updated_at",
	).
		From("stores s").
		OrderBy("s.id ASC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"s.id": filter.Ids})
	}
	if filter.AccountID != 0 {
		builder = builder.Where(sq.Eq{"s.account_id": filter.AccountID})
	}
	if filter.ActiveOnly {
		builder = builder.Where(sq.Eq{"s.status": true})
	}
	if filter.WithOpenOrders {
		builder = builder.
			Join("orders o ON o.store_id = s.id").
			Where(sq.Eq{"o.open": true}).
			Distinct()
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var result []store.Store
	for rows.Next() {
		var dal StoreDal
		err := rows.Scan(
			&dal.Id,
			&dal.AccountId,
			&dal.Name,
			&dal.ManagerEmail,
			&dal.Status,
			&dal.OpeningDay,
			&dal.ClosingDay,
			&dal.OpeningHour,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
