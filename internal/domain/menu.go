package domain

import "time"

type MenuCategory struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type MenuItem struct {
	ID          int64   `json:"-" db:"id"`
	Category    string  `json:"category" db:"category"`
	ItemID      string  `json:"itemId" db:"item_id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
	ImageURL    string  `json:"imageUrl" db:"image_url"`

	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}
