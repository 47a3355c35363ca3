package models

import (
	"time"
)

// Order is a persisted order line. The customer foreign key restricts both
// delete and update, so a customer with orders can only ever be soft-deleted.
type Order struct {
	OrderID      int64      `gorm:"column:order_id;primaryKey;autoIncrement" json:"id"`
	ItemName     string     `gorm:"size:15;not null" json:"itemName"`
	ItemCode     *string    `gorm:"size:7" json:"itemCode,omitempty"`
	ItemQuantity int        `gorm:"not null" json:"itemQuantity"`
	CustomerID   int64      `gorm:"not null" json:"customerId"`
	Customer     *Customer  `gorm:"foreignKey:CustomerID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updatedAt"`
	DeletedAt    *time.Time `gorm:"index" json:"-"`
}

func (Order) TableName() string { return "orders" }
