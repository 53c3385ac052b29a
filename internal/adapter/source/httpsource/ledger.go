package httpsource

import (
	"context"
	"net/http"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/usecase"
)

type ledgerResponse struct {
	envelope
	Data       []domain.LedgerEntry `json:"data"`
	Pagination pagination           `json:"pagination"`
}

// FetchLedger fetches one page of ledger entries.
func (c *Client) FetchLedger(ctx context.Context, q usecase.LedgerQuery) (*usecase.LedgerPage, error) {
	var resp ledgerResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint("accounts", q.AccountID, "ledger"), LedgerParams(q), nil, nil, &resp); err != nil {
		return nil, err
	}

	entries := resp.Data
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}

	return &usecase.LedgerPage{
		Entries: entries,
		Total:   resp.Pagination.Total,
		Pages:   resp.Pagination.Pages,
	}, nil
}
