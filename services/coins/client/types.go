package client

import "github.com/tutorhub/console/internal/dates"

// BuyRequest purchases coins for the signed-in user.
type BuyRequest struct {
	Coins         int64  `json:"coins" validate:"gt=0"`
	PaymentMethod string `json:"paymentMethod,omitempty" validate:"omitempty,max=50"`
	PaymentID     string `json:"externalPaymentId,omitempty"`
}

// Purchase is the outcome of a buy.
type Purchase struct {
	TransactionID string  `json:"transactionId"`
	Coins         int64   `json:"coins"`
	Amount        float64 `json:"amount"`
	Balance       int64   `json:"balance"`
	Status        string  `json:"status"`
}

// DeductRequest spends coins of the signed-in user.
type DeductRequest struct {
	Coins  int64  `json:"coins" validate:"gt=0"`
	Reason string `json:"reason,omitempty" validate:"max=255"`
}

// DeductForClientRequest spends coins on behalf of another user.
type DeductForClientRequest struct {
	ClientID string `json:"clientId" validate:"required"`
	Coins    int64  `json:"coins" validate:"gt=0"`
	Reason   string `json:"reason,omitempty" validate:"max=255"`
}

// Deduction is the outcome of a deduct call. On a business conflict the server
// fills Message and Required instead of TransactionID.
type Deduction struct {
	TransactionID string `json:"transactionId,omitempty"`
	Deducted      int64  `json:"deducted,omitempty"`
	Balance       int64  `json:"balance"`
	Required      int64  `json:"required,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Balance is a user's coin balance.
type Balance struct {
	UserID  int64 `json:"userId"`
	Balance int64 `json:"balance"`
}

// Quote prices a number of coins with bulk discounts applied.
type Quote struct {
	Coins              int64   `json:"coins"`
	UnitPrice          float64 `json:"unitPrice"`
	DiscountPercentage float64 `json:"discountPercentage"`
	Subtotal           float64 `json:"subtotal"`
	Total              float64 `json:"total"`
}

// CoinTransaction is one entry of the coin ledger.
type CoinTransaction struct {
	ID            int64          `json:"id"`
	TransactionID string         `json:"transactionId"`
	Type          string         `json:"type"`
	Coins         int64          `json:"coins"`
	Balance       int64          `json:"balanceAfter"`
	Description   string         `json:"description,omitempty"`
	CreatedAt     dates.DateTime `json:"createdAt"`
}
