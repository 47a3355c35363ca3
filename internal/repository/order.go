package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"crmbackend/internal/apperr"
	"crmbackend/internal/models"
)

// maxOrderSearchLimit is a hard business ceiling enforced here rather than
// in the schema layer.
const maxOrderSearchLimit = 100

type OrderRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewOrderRepository(db *gorm.DB, log zerolog.Logger) *OrderRepository {
	return &OrderRepository{db: db, log: log}
}

type OrderCreateParams struct {
	ItemName     string
	ItemCode     *string
	ItemQuantity int
	CustomerID   int64
}

type OrderSearchParams struct {
	Limit  int
	Offset int
}

type OrderSearchRow struct {
	TotalCount   int64
	OrderID      int64
	ItemName     string
	ItemCode     *string
	ItemQuantity int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
	CustomerID   int64
	CustomerName string
}

type OrderSearchResult struct {
	TotalCount int64
	Orders     []OrderSearchRow
}

// Create inserts an order for an existing customer. The foreign key is the
// existence guarantee.
func (r *OrderRepository) Create(ctx context.Context, params OrderCreateParams) (int64, error) {
	order := models.Order{
		ItemName:     params.ItemName,
		ItemCode:     params.ItemCode,
		ItemQuantity: params.ItemQuantity,
		CustomerID:   params.CustomerID,
	}
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return 0, apperr.BadRequest("Customer does not exist")
		}
		return 0, err
	}

	r.log.Info().Int64("orderId", order.OrderID).Int64("customerId", order.CustomerID).Msg("order created")
	return order.OrderID, nil
}

// Search is admin-only and returns every order, soft-deleted included, so
// administrators keep full audit visibility. The total count rides along in
// the same scan as a window function.
func (r *OrderRepository) Search(ctx context.Context, params OrderSearchParams, caller *models.AuthUser) (*OrderSearchResult, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	if caller.PositionID != models.PositionAdmin {
		return nil, apperr.Forbidden("Access denied")
	}
	if params.Limit > maxOrderSearchLimit {
		return nil, apperr.BadRequest("Limit cannot exceed 100")
	}

	var rows []OrderSearchRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) OVER() AS total_count, orders.order_id, orders.item_name, orders.item_code, orders.item_quantity, orders.created_at, orders.updated_at, orders.deleted_at, customers.id AS customer_id, customers.name AS customer_name").
		Joins("INNER JOIN customers ON customers.id = orders.customer_id").
		Order("orders.created_at DESC, orders.order_id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	var totalCount int64
	if len(rows) > 0 {
		totalCount = rows[0].TotalCount
	}
	return &OrderSearchResult{TotalCount: totalCount, Orders: rows}, nil
}
