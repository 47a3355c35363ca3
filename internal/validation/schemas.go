package validation

import (
	"encoding/json"
)

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpwd"`
}

// CustomerCreateRequest is the customer creation body. PositionID and the
// other numeric fields bind as json.Number so the positive-integer rule sees
// the original representation.
type CustomerCreateRequest struct {
	Name        string      `json:"name" binding:"required,max=100"`
	Email       string      `json:"email" binding:"required,email,max=255"`
	PositionID  json.Number `json:"positionId" binding:"required,posint,positionvalues"`
	StartedDate string      `json:"startedDate" binding:"required,dateformat"`
	Password    string      `json:"password" binding:"required,max=255"`
}

// CustomerUpdateRequest is the customer update body. An omitted password
// leaves the stored hash untouched.
type CustomerUpdateRequest struct {
	Name        string      `json:"name" binding:"required,max=100"`
	Email       string      `json:"email" binding:"required,email,max=255"`
	PositionID  json.Number `json:"positionId" binding:"required,posint,positionvalues"`
	StartedDate string      `json:"startedDate" binding:"required,dateformat"`
	Password    *string     `json:"password" binding:"omitempty,max=255"`
}

// CustomerSearchRequest is the customer search query string. PositionID stays
// a raw string: a non-numeric value is not a validation error, it is a filter
// that matches nothing.
type CustomerSearchRequest struct {
	Name            string `form:"name"`
	PositionID      string `form:"positionId"`
	StartedDateFrom string `form:"startedDateFrom" binding:"omitempty,dateformat"`
	StartedDateTo   string `form:"startedDateTo" binding:"omitempty,dateformat"`
	Limit           string `form:"limit"`
	Offset          string `form:"offset"`
}

// OrderCreateRequest is the order creation body.
type OrderCreateRequest struct {
	ItemName     string      `json:"itemName" binding:"required,max=15"`
	ItemCode     string      `json:"itemCode" binding:"omitempty,max=7"`
	ItemQuantity json.Number `json:"itemQuantity" binding:"required,posint"`
	CustomerID   json.Number `json:"customerId" binding:"required,posint"`
}

// OrderSearchRequest is the order search query string.
type OrderSearchRequest struct {
	Limit  string `form:"limit"`
	Offset string `form:"offset"`
}
