package postgresrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/gal-ch/green-market/internal/dal/postgres"
	"github.com/gal-ch/green-market/internal/service/models/order"
	"github.com/gal-ch/green-market/internal/service/models/orderitem"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id          int64     `db:"id"`
	AccountId   int64     `db:"account_id"`
	StoreId     int64     `db:"store_id"`
	ClientName  string    `db:"client_name"`
	ClientPhone string    `db:"client_phone"`
	Open        bool      `db:"open"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() *order.Order {
	return &order.Order{
		ID:          o.Id,
		AccountID:   o.AccountId,
		StoreID:     o.StoreId,
		ClientName:  o.ClientName,
		ClientPhone: o.ClientPhone,
		Open:        o.Open,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		OrderItems:  []orderitem.OrderItem{}, // Will be populated separately
	}
}

var orderColumns = []string{
	"id",
	"account_id",
	"store_id",
	"client_name",
	"client_phone",
	"open",
	"created_at",
	"updated_at",
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// BulkInsert inserts multiple orders and returns the inserted orders with IDs.
func (r *PostgresOrderRepository) BulkInsert(ctx context.Context, orders []order.Order) ([]order.Order, error) {
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	builder := sq.Insert("orders").
		Columns(
			"account_id",
			"store_id",
			"client_name",
			"client_phone",
			"open",
			"created_at",
			"updated_at",
		).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		PlaceholderFormat(sq.Dollar)

	for _, o := range orders {
		builder = builder.Values(
			o.AccountID,
			o.StoreID,
			o.ClientName,
			o.ClientPhone,
			o.Open,
			o.CreatedAt,
			o.UpdatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	i := 0
	for rows.Next() {
		dal := OrderDal{}
		err := rows.Scan(
			&dal.Id,
			&dal.AccountId,
			&dal.StoreId,
			&dal.ClientName,
			&dal.ClientPhone,
			&dal.Open,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		model := dal.ToModel()
		model.OrderItems = append(model.OrderItems, orders[i].OrderItems...)
		i++

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.StoreIds) > 0 {
		builder = builder.Where(sq.Eq{"store_id": filter.StoreIds})
	}
	if filter.AccountID != 0 {
		builder = builder.Where(sq.Eq{"account_id": filter.AccountID})
	}
	if filter.Open != nil {
		builder = builder.Where(sq.Eq{"open": *filter.Open})
	}
	if !filter.CreatedFrom.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": filter.CreatedFrom})
	}
	if !filter.CreatedTo.IsZero() {
		builder = builder.Where(sq.LtOrEq{"created_at": filter.CreatedTo})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.AccountId,
			&dal.StoreId,
			&dal.ClientName,
			&dal.ClientPhone,
			&dal.Open,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// SetCompleted marks every open order of the given stores as completed.
func (r *PostgresOrderRepository) SetCompleted(ctx context.Context, storeIDs []int64, accountID int64) (int64, error) {
	if len(storeIDs) == 0 {
		return 0, nil
	}

	query, args, err := sq.Update("orders").
		Set("open", false).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"store_id": storeIDs}).
		Where(sq.Eq{"account_id": accountID}).
		Where(sq.Eq{"open": true}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark orders completed: %w", err)
	}

	return tag.RowsAffected(), nil
}
