package storefront

import (
	"time"

	"gorm.io/gorm"
)

type SessionModel struct {
	ID            string `gorm:"primaryKey;type:varchar(36)"`
	Authenticated bool   `gorm:"not null;default:false"`
	UserID        string `gorm:"size:64;index"`
	FirstName     string `gorm:"size:64"`
	LastName      string `gorm:"size:64"`
	Email         string `gorm:"size:255"`
	Phone         string `gorm:"size:32"`
	Role          string `gorm:"size:16"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (SessionModel) TableName() string { return "storefront_sessions" }

// CartLineModel 购物车行；Snapshot 是加购时商品快照的 JSON
type CartLineModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SessionID string `gorm:"type:varchar(36);not null;uniqueIndex:uk_session_product"`
	ProductID string `gorm:"size:64;not null;uniqueIndex:uk_session_product"`
	Quantity  int    `gorm:"not null"`
	Snapshot  string `gorm:"type:text"`
}

func (CartLineModel) TableName() string { return "storefront_cart_lines" }

func Models() []any { return []any{&SessionModel{}, &CartLineModel{}} }
