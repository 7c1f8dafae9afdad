// Package client talks to the digital coin API. Payloads sit at "data" in this
// endpoint family, and response headers are returned with every result.
//
// The deduct operations treat HTTP 409 as a business outcome: the result fails
// with Conflict() true and Data holding the server's conflict payload.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tutorhub/console/internal/envelope"
	apperrors "github.com/tutorhub/console/internal/errors"
	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/metrics"
	"github.com/tutorhub/console/internal/pagination"
	"github.com/tutorhub/console/internal/validate"
)

// DefaultPageSize is used when the caller passes a non-positive size.
const DefaultPageSize = 10

const coinsPath = "/api/v1/coins"

var (
	purchaseDecoder  = envelope.At[Purchase](envelope.CoinData)
	deductionDecoder = envelope.At[Deduction](envelope.CoinData)
	balanceDecoder   = envelope.At[Balance](envelope.CoinData)
	quoteDecoder     = envelope.At[Quote](envelope.CoinData)
	historyDecoder   = envelope.PageAt[CoinTransaction](envelope.CoinData+".transactions", envelope.CoinData)
)

// Client talks to the coin endpoints.
type Client struct {
	api *httputil.Client
}

// New creates a coins client.
func New(api *httputil.Client) *Client {
	return &Client{api: api}
}

// Buy purchases coins.
func (c *Client) Buy(ctx context.Context, req BuyRequest) envelope.Result[Purchase] {
	if err := validate.Struct(req); err != nil {
		return envelope.Fail[Purchase](err)
	}
	resp, err := c.api.Post(ctx, coinsPath+"/buy", httputil.WithBody(req))
	return httputil.ToResult(resp, err, purchaseDecoder)
}

// Deduct spends coins of the signed-in user.
func (c *Client) Deduct(ctx context.Context, req DeductRequest) envelope.Result[Deduction] {
	if err := validate.Struct(req); err != nil {
		return envelope.Fail[Deduction](err)
	}
	return c.deduct(ctx, "deduct", req)
}

// DeductForClient spends coins on behalf of req.ClientID.
func (c *Client) DeductForClient(ctx context.Context, req DeductForClientRequest) envelope.Result[Deduction] {
	if err := validate.Struct(req); err != nil {
		return envelope.Fail[Deduction](err)
	}
	return c.deduct(ctx, "deduct-for-client", req)
}

func (c *Client) deduct(ctx context.Context, op string, body any) envelope.Result[Deduction] {
	resp, err := c.api.Post(ctx, coinsPath+"/"+op, httputil.WithBody(body))
	if resp != nil && resp.Status == http.StatusConflict {
		return c.conflict(ctx, op, resp)
	}
	return httputil.ToResult(resp, err, deductionDecoder)
}

// conflict reads the 409 body. The payload may sit at "data" or at the top level.
// The full body is kept on the result and on its cause.
func (c *Client) conflict(ctx context.Context, op string, resp *httputil.Response) envelope.Result[Deduction] {
	metrics.RecordConflict(op)
	log := c.api.Logger().WithContext(ctx).WithField("operation", op)

	d, err := deductionDecoder.Decode(resp.Body)
	if err != nil || (d == Deduction{}) {
		d = Deduction{}
		if rootErr := json.Unmarshal(resp.Body, &d); rootErr != nil {
			log.WithError(rootErr).Warn("conflict body is not a deduction payload")
			d = Deduction{}
		}
	}
	msg := d.Message
	if msg == "" {
		msg = envelope.Message(resp.Body)
	}
	if msg == "" {
		msg = http.StatusText(http.StatusConflict)
	}

	log.WithField("balance", d.Balance).
		WithField("required", d.Required).
		Warn("coin deduction refused")

	return envelope.Result[Deduction]{
		Data:    d,
		Headers: resp.Header,
		Error:   msg,
		Status:  http.StatusConflict,
		Body:    resp.Body,
		Cause:   apperrors.Conflict(msg, resp.Body),
	}
}

// Balance returns the signed-in user's balance.
func (c *Client) Balance(ctx context.Context) envelope.Result[Balance] {
	resp, err := c.api.Get(ctx, coinsPath+"/balance")
	return httputil.ToResult(resp, err, balanceDecoder)
}

// CalculatePrice quotes the price of coins.
func (c *Client) CalculatePrice(ctx context.Context, coins int64) envelope.Result[Quote] {
	if err := validate.Var("coins", coins, "gt=0"); err != nil {
		return envelope.Fail[Quote](err)
	}
	q := url.Values{"coins": {strconv.FormatInt(coins, 10)}}
	resp, err := c.api.Get(ctx, coinsPath+"/price", httputil.WithQuery(q))
	return httputil.ToResult(resp, err, quoteDecoder)
}

// History returns one page of the signed-in user's coin ledger.
func (c *Client) History(ctx context.Context, page, size int) envelope.Result[pagination.Page[CoinTransaction]] {
	page, size = pagination.Normalize(page, size, DefaultPageSize)
	resp, err := c.api.Get(ctx, coinsPath+"/transactions", httputil.WithQuery(pagination.Params(page, size)))
	return httputil.ToResult(resp, err, historyDecoder)
}
