package domain

import "time"

// Location 收货位置，前端地图选点后传入
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type OrderLine struct {
	ProductID ProductID `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

type Order struct {
	UserID    string      `json:"userId"`
	Location  Location    `json:"location"`
	LineItems []OrderLine `json:"lineItems"`
}

// OrderReceipt 下单成功后后端回执
type OrderReceipt struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}
