package model

import "time"

type OrderStatus string

const (
	OrderStatusReviewing  OrderStatus = "REVIEWING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `gorm:"type:varchar(64)" json:"first_name"`
	LastName  string `gorm:"type:varchar(64)" json:"last_name"`
	Role      Role   `gorm:"type:varchar(16);not null" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Order struct {
	ID             uint64      `gorm:"primaryKey" json:"id"`
	UserID         uint64      `gorm:"index;not null" json:"user_id"`
	Name           string      `gorm:"type:varchar(255);not null" json:"name"`
	Description    string      `gorm:"type:text" json:"description,omitempty"`
	Specifications string      `gorm:"type:text" json:"specifications,omitempty"`
	Quantity       int         `gorm:"not null" json:"quantity"`
	DueDate        *time.Time  `json:"due_date,omitempty"`
	Status         OrderStatus `gorm:"type:varchar(32);index;not null" json:"status"`
	ClosingSummary string      `gorm:"type:text" json:"closing_summary,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chat is immutable once created: no UpdatedAt, never edited or deleted.
type Chat struct {
	ID             uint64 `gorm:"primaryKey" json:"id"`
	OrderID        uint64 `gorm:"index;not null" json:"order_id"`
	UserID         uint64 `gorm:"index;not null" json:"user_id"`
	Message        string `gorm:"type:text;not null" json:"message"`
	IsFromCustomer bool   `gorm:"not null" json:"is_from_customer"`

	CreatedAt time.Time `json:"created_at"`
}
