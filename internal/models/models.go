package models

import "time"

type Business struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	Slug     string `gorm:"unique;not null"          json:"slug"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Currency string `gorm:"not null;default:MXN"     json:"currency"`
	LogoURL  string `json:"logo_url"`
	MenuURL  string `json:"menu_url"`
	IsOpen   bool   `gorm:"default:true"             json:"is_open"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID   uint   `gorm:"index;not null"           json:"business_id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:staff"   json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type Category struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID uint   `gorm:"index;not null"           json:"business_id"`
	Name       string `gorm:"not null"                 json:"name"`
	SortOrder  int    `gorm:"default:0"                json:"sort_order"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID  uint    `gorm:"index;not null"           json:"business_id"`
	CategoryID  uint    `gorm:"index"                    json:"category_id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"                 json:"price"`
	ImageURL    string  `json:"image_url"`
	Available   bool    `gorm:"default:true"             json:"available"`

	ToppingGroups []ToppingGroup `gorm:"many2many:product_topping_groups" json:"topping_groups,omitempty"`
}

type ToppingGroup struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID uint   `gorm:"index;not null"           json:"business_id"`
	Name       string `gorm:"not null"                 json:"name"`
	MinSelect  int    `gorm:"default:0"                json:"min_select"`
	MaxSelect  int    `gorm:"default:1"                json:"max_select"`

	Toppings []Topping `gorm:"foreignKey:GroupID" json:"toppings,omitempty"`
}

type Topping struct {
	ID      uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID uint    `gorm:"index;not null"           json:"group_id"`
	Name    string  `gorm:"not null"                 json:"name"`
	Price   float64 `gorm:"default:0"                json:"price"`
}

type Table struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID uint   `gorm:"index;not null"           json:"business_id"`
	Number     string `gorm:"not null"                 json:"number"`
	Seats      int    `gorm:"default:4"                json:"seats"`
}

type Order struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID uint      `gorm:"index;not null"           json:"business_id"`
	Code       string    `gorm:"uniqueIndex;not null"     json:"code"`
	Type       string    `gorm:"not null"                 json:"type"`
	Status     string    `gorm:"index;not null"           json:"status"`
	TableLabel string    `json:"table"`
	Customer   string    `json:"customer"`
	IsPaid     bool      `gorm:"default:false"            json:"is_paid"`
	Total      float64   `gorm:"not null"                 json:"total"`
	CreatedAt  time.Time `json:"created_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index;not null"           json:"order_id"`
	ProductID uint    `json:"product_id"`
	Name      string  `gorm:"not null"                 json:"name"`
	UnitPrice float64 `gorm:"not null"                 json:"unit_price"`
	Quantity  int     `gorm:"default:1;check:quantity>0" json:"quantity"`
	Comment   string  `json:"comment"`
	Modifiers string  `json:"modifiers"`
}
