package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crmbackend/internal/repository"
	"crmbackend/internal/token"
	"crmbackend/internal/validation"
)

const dateLayout = "2006-01-02"

type LoginResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	StartedDate string     `json:"started_date"`
	PositionID  string     `json:"position_id"`
	CreatedDate string     `json:"created_date"`
	UpdatedDate string     `json:"updated_date"`
	Token       token.Pair `json:"token"`
}

// Login exchanges credentials for a profile plus a token pair.
func Login(repo *repository.AuthRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(validation.AsError(err))
			return
		}

		result, err := repo.Login(c.Request.Context(), repository.LoginParams{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			_ = c.Error(err)
			return
		}

		customer := result.Customer
		c.JSON(http.StatusOK, LoginResponse{
			ID:          strconv.FormatInt(customer.ID, 10),
			Email:       customer.Email,
			Name:        customer.Name,
			StartedDate: customer.StartedDate.Format(dateLayout),
			PositionID:  strconv.Itoa(int(customer.PositionID)),
			CreatedDate: customer.CreatedAt.Format(dateLayout),
			UpdatedDate: customer.UpdatedAt.Format(dateLayout),
			Token:       result.Tokens,
		})
	}
}
