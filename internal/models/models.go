package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRole reports whether role is one of the two known role values.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

type Product struct {
	ID          string    `gorm:"primaryKey"  json:"id"`
	Name        string    `gorm:"not null"    json:"name"`
	Description string    `gorm:"not null"    json:"description"`
	Price       float64   `gorm:"not null"    json:"price"`
	ImageURL    string    `json:"imageUrl"`
	Stock       uint      `json:"stock"`
	CategoryID  *string   `gorm:"index"       json:"categoryId,omitempty"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Stock badge levels shown on the storefront product detail view.
const (
	StockOut       = "out_of_stock"
	StockLastUnits = "last_units"
	StockLow       = "low_stock"
	StockIn        = "in_stock"
)

func (p Product) StockStatus() string {
	switch {
	case p.Stock == 0:
		return StockOut
	case p.Stock <= 5:
		return StockLastUnits
	case p.Stock <= 10:
		return StockLow
	default:
		return StockIn
	}
}

type User struct {
	ID           string    `gorm:"primaryKey"       json:"id"`
	Email        string    `gorm:"unique;not null"  json:"email"`
	Name         string    `gorm:"not null"         json:"name"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	Role         string    `gorm:"not null"         json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PublicUser is the projection of User safe to serialize to any caller.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type Category struct {
	ID   string `gorm:"primaryKey"       json:"id"`
	Name string `gorm:"unique;not null"  json:"name"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
