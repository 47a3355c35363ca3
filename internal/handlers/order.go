package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crmbackend/internal/middleware"
	"crmbackend/internal/repository"
	"crmbackend/internal/validation"
)

type OrderCustomerItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OrderSearchItem struct {
	ID           string            `json:"id"`
	ItemName     string            `json:"item_name"`
	ItemCode     string            `json:"item_code"`
	ItemQuantity string            `json:"item_quantity"`
	CreatedDate  string            `json:"created_date"`
	UpdatedDate  string            `json:"updated_date"`
	DeletedDate  string            `json:"deleted_date"`
	Customer     OrderCustomerItem `json:"customer"`
}

type OrderSearchResponse struct {
	TotalCount int64             `json:"total_count"`
	Order      []OrderSearchItem `json:"order"`
}

func CreateOrder(repo *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.OrderCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(validation.AsError(err))
			return
		}

		quantity, _ := strconv.Atoi(req.ItemQuantity.String())
		customerID, _ := strconv.ParseInt(req.CustomerID.String(), 10, 64)

		var itemCode *string
		if req.ItemCode != "" {
			itemCode = &req.ItemCode
		}

		id, err := repo.Create(c.Request.Context(), repository.OrderCreateParams{
			ItemName:     req.ItemName,
			ItemCode:     itemCode,
			ItemQuantity: quantity,
			CustomerID:   customerID,
		})
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

func SearchOrders(repo *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.OrderSearchRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			_ = c.Error(validation.AsError(err))
			return
		}

		window := validation.NormalizePagination(req.Limit, req.Offset)
		result, err := repo.Search(c.Request.Context(), repository.OrderSearchParams{
			Limit:  window.Limit,
			Offset: window.Offset,
		}, middleware.UserFrom(c))
		if err != nil {
			_ = c.Error(err)
			return
		}

		items := make([]OrderSearchItem, 0, len(result.Orders))
		for _, row := range result.Orders {
			itemCode := ""
			if row.ItemCode != nil {
				itemCode = *row.ItemCode
			}
			deletedDate := ""
			if row.DeletedAt != nil {
				deletedDate = row.DeletedAt.Format(dateLayout)
			}
			items = append(items, OrderSearchItem{
				ID:           strconv.FormatInt(row.OrderID, 10),
				ItemName:     row.ItemName,
				ItemCode:     itemCode,
				ItemQuantity: strconv.Itoa(row.ItemQuantity),
				CreatedDate:  row.CreatedAt.Format(dateLayout),
				UpdatedDate:  row.UpdatedAt.Format(dateLayout),
				DeletedDate:  deletedDate,
				Customer: OrderCustomerItem{
					ID:   strconv.FormatInt(row.CustomerID, 10),
					Name: row.CustomerName,
				},
			})
		}

		c.JSON(http.StatusOK, OrderSearchResponse{
			TotalCount: result.TotalCount,
			Order:      items,
		})
	}
}
