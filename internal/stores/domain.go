package stores

import "time"

// Store represents a rateable store owned by a principal.
type Store struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description,omitempty"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summary aggregates the ratings submitted for one store.
type Summary struct {
	StoreID int64   `json:"storeId"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}
