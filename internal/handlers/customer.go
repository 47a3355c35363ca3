package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"crmbackend/internal/middleware"
	"crmbackend/internal/models"
	"crmbackend/internal/repository"
	"crmbackend/internal/validation"
)

type CustomerResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	StartedDate string `json:"started_date"`
	PositionID  string `json:"position_id"`
	CreatedDate string `json:"created_date"`
	UpdatedDate string `json:"updated_date"`
}

type CustomerOrderItem struct {
	ID          string `json:"id"`
	ItemName    string `json:"item_name"`
	CreatedDate string `json:"created_date"`
}

type CustomerSearchItem struct {
	ID          string              `json:"id"`
	Email       string              `json:"email"`
	Name        string              `json:"name"`
	StartedDate string              `json:"started_date"`
	PositionID  string              `json:"position_id"`
	Orders      []CustomerOrderItem `json:"orders"`
}

type CustomerSearchResponse struct {
	TotalCount int64                `json:"total_count"`
	Customer   []CustomerSearchItem `json:"customer"`
}

func CreateCustomer(repo *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.CustomerCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(validation.AsError(err))
			return
		}

		positionID, _ := strconv.Atoi(req.PositionID.String())
		startedDate, _ := time.Parse(dateLayout, req.StartedDate)

		id, err := repo.Create(c.Request.Context(), repository.CustomerCreateParams{
			Name:        req.Name,
			Email:       req.Email,
			Password:    req.Password,
			PositionID:  models.Position(positionID),
			StartedDate: startedDate,
		})
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

func GetCustomer(repo *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := validation.ParseID(c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		customer, err := repo.SearchByID(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, CustomerResponse{
			ID:          strconv.FormatInt(customer.ID, 10),
			Email:       customer.Email,
			Name:        customer.Name,
			StartedDate: customer.StartedDate.Format(dateLayout),
			PositionID:  strconv.Itoa(int(customer.PositionID)),
			CreatedDate: customer.CreatedAt.Format(dateLayout),
			UpdatedDate: customer.UpdatedAt.Format(dateLayout),
		})
	}
}

func UpdateCustomer(repo *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := validation.ParseID(c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		var req validation.CustomerUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(validation.AsError(err))
			return
		}

		positionID, _ := strconv.Atoi(req.PositionID.String())
		startedDate, _ := time.Parse(dateLayout, req.StartedDate)

		updatedID, err := repo.Update(c.Request.Context(), id, repository.CustomerUpdateParams{
			Name:        req.Name,
			Email:       req.Email,
			PositionID:  models.Position(positionID),
			StartedDate: startedDate,
			Password:    req.Password,
		}, middleware.UserFrom(c))
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": updatedID})
	}
}

func DeleteCustomer(repo *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := validation.ParseID(c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		if err := repo.Delete(c.Request.Context(), id, middleware.UserFrom(c)); err != nil {
			_ = c.Error(err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func SearchCustomers(repo *repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.CustomerSearchRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			_ = c.Error(validation.AsError(err))
			return
		}

		window := validation.NormalizePagination(req.Limit, req.Offset)
		result, err := repo.Search(c.Request.Context(), repository.CustomerSearchParams{
			Name:            req.Name,
			PositionID:      req.PositionID,
			StartedDateFrom: req.StartedDateFrom,
			StartedDateTo:   req.StartedDateTo,
			Limit:           window.Limit,
			Offset:          window.Offset,
		})
		if err != nil {
			_ = c.Error(err)
			return
		}

		items := make([]CustomerSearchItem, 0, len(result.Customers))
		for _, row := range result.Customers {
			orders := make([]CustomerOrderItem, 0, len(row.Orders))
			for _, order := range row.Orders {
				orders = append(orders, CustomerOrderItem{
					ID:          strconv.FormatInt(order.ID, 10),
					ItemName:    order.ItemName,
					CreatedDate: order.CreatedAt.Format(dateLayout),
				})
			}
			items = append(items, CustomerSearchItem{
				ID:          strconv.FormatInt(row.ID, 10),
				Email:       row.Email,
				Name:        row.Name,
				StartedDate: row.StartedDate.Format(dateLayout),
				PositionID:  strconv.Itoa(int(row.PositionID)),
				Orders:      orders,
			})
		}

		c.JSON(http.StatusOK, CustomerSearchResponse{
			TotalCount: result.TotalCount,
			Customer:   items,
		})
	}
}
