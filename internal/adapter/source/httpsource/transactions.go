package httpsource

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/usecase"
)

type transactionsResponse struct {
	envelope
	Data struct {
		Transactions []domain.FundTransaction `json:"transactions"`
		Pagination   pagination               `json:"pagination"`
	} `json:"data"`
}

type createTransactionBody struct {
	Type   domain.TransactionType `json:"type"`
	Asset  domain.Asset           `json:"asset"`
	Amount decimal.Decimal        `json:"amount"`
}

type balanceResponse struct {
	envelope
	Data map[string]decimal.Decimal `json:"data"`
}

// ListTransactions fetches one page of fund transactions.
func (c *Client) ListTransactions(ctx context.Context, q usecase.TransactionQuery) (*usecase.TransactionPage, error) {
	var resp transactionsResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint("accounts", q.AccountID, "transactions"), TransactionParams(q), nil, nil, &resp); err != nil {
		return nil, err
	}

	txs := resp.Data.Transactions
	if txs == nil {
		txs = []domain.FundTransaction{}
	}

	return &usecase.TransactionPage{
		Transactions: txs,
		Total:        resp.Data.Pagination.Total,
		Pages:        resp.Data.Pagination.Pages,
	}, nil
}

// CreateTransaction submits a deposit or withdrawal and returns the source
// confirmation message.
func (c *Client) CreateTransaction(ctx context.Context, req usecase.CreateTransactionRequest) (string, error) {
	var headers map[string]string
	if req.IdempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": req.IdempotencyKey}
	}

	body := createTransactionBody{Type: req.Type, Asset: req.Asset, Amount: req.Amount}

	var resp envelope
	if err := c.do(ctx, http.MethodPost, c.endpoint("accounts", req.AccountID, "transactions"), nil, body, headers, &resp); err != nil {
		return "", err
	}

	return resp.Message, nil
}

// GetBalances fetches the authoritative balances of an account. Unknown
// asset keys are ignored.
func (c *Client) GetBalances(ctx context.Context, accountID string) (domain.Balances, error) {
	var resp balanceResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint("accounts", accountID, "balance"), nil, nil, nil, &resp); err != nil {
		return nil, err
	}

	balances := domain.Balances{
		domain.AssetCash: decimal.Zero,
		domain.AssetGold: decimal.Zero,
	}
	for key, amount := range resp.Data {
		asset, err := domain.ParseAsset(key)
		if err != nil {
			continue
		}
		balances[asset] = amount
	}

	return balances, nil
}
