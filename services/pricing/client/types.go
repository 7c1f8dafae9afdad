package client

import "github.com/tutorhub/console/internal/dates"

// CoinPrice is the price of one coin.
type CoinPrice struct {
	ID        int64          `json:"id"`
	Price     float64        `json:"price"`
	Currency  string         `json:"currency,omitempty"`
	Active    bool           `json:"active"`
	CreatedAt dates.DateTime `json:"createdAt"`
	UpdatedAt dates.DateTime `json:"updatedAt"`
}

// PriceRequest sets a coin price.
type PriceRequest struct {
	Price    float64 `json:"price" validate:"gt=0"`
	Currency string  `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
}
