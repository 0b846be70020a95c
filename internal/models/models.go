package models

// User is a registered account. The password is stored only as a bcrypt hash.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Description string  `json:"description"`
}

// Session binds an opaque token to a user. A session stays valid until it is
// revoked by logout or passes ExpiresAt (unix seconds).
type Session struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

// CartItem is one "added to cart" event. There is no quantity column: adding
// the same product again inserts another row.
type CartItem struct {
	ID        uint `gorm:"primaryKey"     json:"id"`
	UserID    uint `gorm:"index;not null" json:"user_id"`
	ProductID uint `gorm:"not null"       json:"product_id"`
}
