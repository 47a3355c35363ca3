package models

import (
	"time"
)

// Customer is a persisted customer account. A non-nil DeletedAt marks the
// row logically absent from all normal reads.
type Customer struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email       string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	StartedDate time.Time  `gorm:"type:date;not null" json:"startedDate"`
	PositionID  Position   `gorm:"type:smallint;not null" json:"positionId"`
	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updatedAt"`
	DeletedAt   *time.Time `gorm:"index" json:"-"`
}

func (Customer) TableName() string { return "customers" }

// AuthUser is the identity resolved from a bearer token for one request.
// It is never persisted.
type AuthUser struct {
	ID         int64    `json:"id"`
	Email      string   `json:"email"`
	PositionID Position `json:"positionId"`
}
