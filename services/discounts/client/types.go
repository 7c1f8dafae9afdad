package client

import "github.com/tutorhub/console/internal/dates"

// State is a discount's lifecycle state.
type State string

const (
	StateActive   State = "ACTIVE"
	StateInactive State = "INACTIVE"
)

// Discount is a bulk purchase discount: buying at least MinCoins takes
// DiscountPercentage off.
type Discount struct {
	ID                 int64          `json:"id"`
	MinCoins           int64          `json:"minCoins"`
	DiscountPercentage float64        `json:"discountPercentage"`
	Active             bool           `json:"active"`
	CreatedAt          dates.DateTime `json:"createdAt"`
	UpdatedAt          dates.DateTime `json:"updatedAt"`
}

// State reports the lifecycle state.
func (d Discount) State() State {
	if d.Active {
		return StateActive
	}
	return StateInactive
}

// Request creates or replaces a discount.
type Request struct {
	MinCoins           int64   `json:"minCoins" validate:"gt=0"`
	DiscountPercentage float64 `json:"discountPercentage" validate:"gt=0,lte=100"`
	Active             bool    `json:"active"`
}
