package ratings

import "time"

// Rating represents one user's 1-5 score for a store. UserName and StoreName
// are joined in for listings and absent on write paths.
type Rating struct {
	ID        int64     `json:"id"`
	StoreID   int64     `json:"storeId"`
	UserID    int64     `json:"userId"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	UserName  string    `json:"userName,omitempty"`
	StoreName string    `json:"storeName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
