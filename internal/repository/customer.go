// Package repository holds the persistence layer, one unit per entity.
// Every operation re-reads current state; nothing is cached across requests.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"crmbackend/internal/apperr"
	"crmbackend/internal/models"
	"crmbackend/internal/password"
)

type CustomerRepository struct {
	db     *gorm.DB
	hasher password.Hasher
	log    zerolog.Logger
}

func NewCustomerRepository(db *gorm.DB, hasher password.Hasher, log zerolog.Logger) *CustomerRepository {
	return &CustomerRepository{db: db, hasher: hasher, log: log}
}

type CustomerCreateParams struct {
	Name        string
	Email       string
	Password    string
	PositionID  models.Position
	StartedDate time.Time
}

type CustomerUpdateParams struct {
	Name        string
	Email       string
	PositionID  models.Position
	StartedDate time.Time
	Password    *string
}

type CustomerSearchParams struct {
	Name            string
	PositionID      string
	StartedDateFrom string
	StartedDateTo   string
	Limit           int
	Offset          int
}

type OrderSummary struct {
	ID        int64
	ItemName  string
	CreatedAt time.Time
}

type CustomerSearchRow struct {
	ID          int64
	Email       string
	Name        string
	StartedDate time.Time
	PositionID  models.Position
	Orders      []OrderSummary
}

type CustomerSearchResult struct {
	TotalCount int64
	Customers  []CustomerSearchRow
}

// Create inserts a new customer. The email check spans soft-deleted rows,
// matching the storage-level unique index, which stays the arbiter for
// concurrent creates.
func (r *CustomerRepository) Create(ctx context.Context, params CustomerCreateParams) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("email = ?", params.Email).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, apperr.AlreadyExists("Customer")
	}

	digest, err := r.hasher.Hash(params.Password)
	if err != nil {
		return 0, err
	}

	customer := models.Customer{
		Name:        params.Name,
		Email:       params.Email,
		Password:    digest,
		PositionID:  params.PositionID,
		StartedDate: params.StartedDate,
	}
	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperr.AlreadyExists("Customer")
		}
		return 0, err
	}

	r.log.Info().Int64("id", customer.ID).Msg("customer created")
	return customer.ID, nil
}

// SearchByID returns an active customer. Soft-deleted rows are excluded,
// consistent with every other read path.
func (r *CustomerRepository) SearchByID(ctx context.Context, id int64) (*models.Customer, error) {
	return r.activeByID(ctx, id)
}

// Update applies a partial update to an active customer. The caller must be
// an admin or the customer themself. An omitted password leaves the stored
// hash untouched.
func (r *CustomerRepository) Update(ctx context.Context, id int64, params CustomerUpdateParams, caller *models.AuthUser) (int64, error) {
	if _, err := r.activeByID(ctx, id); err != nil {
		return 0, err
	}
	if caller == nil {
		return 0, apperr.Unauthorized("Authentication required")
	}
	if caller.PositionID != models.PositionAdmin && caller.ID != id {
		return 0, apperr.Forbidden("Access denied")
	}

	updates := map[string]interface{}{
		"name":         params.Name,
		"email":        params.Email,
		"position_id":  int(params.PositionID),
		"started_date": params.StartedDate,
		"updated_at":   time.Now(),
	}
	if params.Password != nil {
		digest, err := r.hasher.Hash(*params.Password)
		if err != nil {
			return 0, err
		}
		updates["password"] = digest
	}

	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, apperr.AlreadyExists("Customer")
		}
		return 0, err
	}

	return id, nil
}

// Delete soft-deletes an active customer. Only an admin may delete, and
// never themself: that would orphan the caller's own auth context.
func (r *CustomerRepository) Delete(ctx context.Context, id int64, caller *models.AuthUser) error {
	if _, err := r.activeByID(ctx, id); err != nil {
		return err
	}
	if caller == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if caller.PositionID != models.PositionAdmin {
		return apperr.Forbidden("Access denied")
	}
	if caller.ID == id {
		return apperr.Forbidden("Cannot delete the logged in user")
	}

	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"updated_at": now,
		}).Error
}

// Search filters active customers, counts the full match set independent of
// the window, pages deterministically and attaches each customer's live
// orders in creation order.
func (r *CustomerRepository) Search(ctx context.Context, params CustomerSearchParams) (*CustomerSearchResult, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("deleted_at IS NULL")
		if params.Name != "" {
			tx = tx.Where("name LIKE ?", "%"+params.Name+"%")
		}
		if params.PositionID != "" {
			if positionID, err := strconv.Atoi(params.PositionID); err != nil {
				// A non-numeric position is a search that matches nothing,
				// not a validation failure.
				tx = tx.Where("1 = 0")
			} else {
				tx = tx.Where("position_id = ?", positionID)
			}
		}
		if params.StartedDateFrom != "" {
			tx = tx.Where("started_date >= ?", params.StartedDateFrom)
		}
		if params.StartedDateTo != "" {
			tx = tx.Where("started_date <= ?", params.StartedDateTo)
		}
		return tx
	}

	var totalCount int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Scopes(filter).
		Count(&totalCount).Error
	if err != nil {
		return nil, err
	}

	var customers []models.Customer
	err = r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Scopes(filter).
		Select("id, email, name, started_date, position_id").
		Order("name ASC, started_date ASC, id ASC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}

	ordersByCustomer, err := r.liveOrdersFor(ctx, customers)
	if err != nil {
		return nil, err
	}

	rows := make([]CustomerSearchRow, 0, len(customers))
	for _, customer := range customers {
		orders := ordersByCustomer[customer.ID]
		if orders == nil {
			orders = []OrderSummary{}
		}
		rows = append(rows, CustomerSearchRow{
			ID:          customer.ID,
			Email:       customer.Email,
			Name:        customer.Name,
			StartedDate: customer.StartedDate,
			PositionID:  customer.PositionID,
			Orders:      orders,
		})
	}

	return &CustomerSearchResult{TotalCount: totalCount, Customers: rows}, nil
}

func (r *CustomerRepository) liveOrdersFor(ctx context.Context, customers []models.Customer) (map[int64][]OrderSummary, error) {
	grouped := make(map[int64][]OrderSummary, len(customers))
	if len(customers) == 0 {
		return grouped, nil
	}

	ids := make([]int64, 0, len(customers))
	for _, customer := range customers {
		ids = append(ids, customer.ID)
	}

	var orders []models.Order
	err := r.db.WithContext(ctx).
		Select("order_id, item_name, created_at, customer_id").
		Where("customer_id IN ?", ids).
		Where("deleted_at IS NULL").
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		grouped[order.CustomerID] = append(grouped[order.CustomerID], OrderSummary{
			ID:        order.OrderID,
			ItemName:  order.ItemName,
			CreatedAt: order.CreatedAt,
		})
	}
	return grouped, nil
}

func (r *CustomerRepository) activeByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Take(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("Customer.id = %d", id))
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
