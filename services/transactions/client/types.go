package client

import (
	"time"

	"github.com/tutorhub/console/internal/dates"
	"github.com/tutorhub/console/internal/pagination"
)

// Transaction is a coin purchase, deduction or refund.
type Transaction struct {
	ID                int64          `json:"id"`
	TransactionID     string         `json:"transactionId"`
	ExternalPaymentID string         `json:"externalPaymentId,omitempty"`
	UserID            int64          `json:"userId"`
	UserEmail         string         `json:"userEmail,omitempty"`
	Type              string         `json:"type"`
	Status            string         `json:"status"`
	Amount            float64        `json:"amount"`
	Currency          string         `json:"currency,omitempty"`
	Coins             int64          `json:"coins"`
	Description       string         `json:"description,omitempty"`
	CreatedAt         dates.DateTime `json:"createdAt"`
	UpdatedAt         dates.DateTime `json:"updatedAt"`
}

// Filter narrows a transaction search. Zero fields are not sent; dates go out
// as YYYY-MM-DD.
type Filter struct {
	StartDate         time.Time
	EndDate           time.Time
	Status            string
	UserID            string
	Type              string
	TransactionID     string
	ExternalPaymentID string
}

func (f Filter) filters() pagination.Filters {
	return pagination.Filters{
		"startDate":         f.StartDate,
		"endDate":           f.EndDate,
		"status":            f.Status,
		"userId":            f.UserID,
		"type":              f.Type,
		"transactionId":     f.TransactionID,
		"externalPaymentId": f.ExternalPaymentID,
	}
}
