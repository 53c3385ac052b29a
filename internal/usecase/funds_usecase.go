package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/infrastructure/metrics"
)

// SubmitFundsInput is a deposit or withdrawal request.
type SubmitFundsInput struct {
	AccountID      string
	Type           domain.TransactionType
	Asset          domain.Asset
	Amount         decimal.Decimal
	IdempotencyKey string
}

// SubmitFundsResult is the outcome of a submission that reached the source.
type SubmitFundsResult struct {
	IdempotencyKey string
	State          domain.GuardState
	Message        string
	Asset          domain.Asset
	// Confirmed is the authoritative balance after the submission.
	Confirmed decimal.Decimal
	// Effective includes optimistic deltas not yet confirmed by a refresh.
	Effective decimal.Decimal
}

// FundsUseCase handles fund transactions and balance-guarded submissions.
type FundsUseCase struct {
	source  TransactionSource
	idGen   IDGenerator
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewFundsUseCase creates a new FundsUseCase.
func NewFundsUseCase(
	source TransactionSource,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *FundsUseCase {
	return &FundsUseCase{
		source:  source,
		idGen:   idGen,
		logger:  logger,
		metrics: metrics,
	}
}

// ListTransactions returns one page of fund transactions.
func (uc *FundsUseCase) ListTransactions(ctx context.Context, q TransactionQuery) (*TransactionPage, error) {
	q.Page, q.Limit = domain.ValidatePagination(q.Page, q.Limit)

	page, err := uc.source.ListTransactions(ctx, q)
	if err != nil {
		uc.sourceFailed("list_transactions")
		return nil, sourceError(err)
	}

	return page, nil
}

// Balances fetches the authoritative balances of an account.
func (uc *FundsUseCase) Balances(ctx context.Context, accountID string) (domain.Balances, error) {
	balances, err := uc.source.GetBalances(ctx, accountID)
	if err != nil {
		uc.sourceFailed("get_balances")
		return nil, sourceError(err)
	}

	return balances, nil
}

// NewGuard creates a balance guard seeded with the current balances.
func (uc *FundsUseCase) NewGuard(ctx context.Context, accountID string) (*domain.BalanceGuard, error) {
	balances, err := uc.Balances(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return domain.NewBalanceGuard(balances), nil
}

// Submit validates input against guard and forwards it to the source. A
// request the guard rejects never reaches the source. After a successful
// submission the guard is refreshed from the source; when that refresh
// fails the optimistic delta is kept. The guard is back in IDLE on return.
func (uc *FundsUseCase) Submit(ctx context.Context, guard *domain.BalanceGuard, input SubmitFundsInput) (*SubmitFundsResult, error) {
	req, err := domain.FundRequest{
		Type:   input.Type,
		Asset:  input.Asset,
		Amount: input.Amount,
	}.Normalize()
	if err != nil {
		return nil, err
	}

	if err := guard.Begin(req); err != nil {
		var insufficient *domain.InsufficientBalanceError
		if errors.As(err, &insufficient) && uc.metrics != nil {
			uc.metrics.GuardRejections.WithLabelValues(string(insufficient.Asset)).Inc()
		}
		return nil, err
	}

	key := input.IdempotencyKey
	if key == "" {
		key = uc.idGen.Generate()
	}

	result := &SubmitFundsResult{IdempotencyKey: key, Asset: req.Asset}

	message, err := uc.source.CreateTransaction(ctx, CreateTransactionRequest{
		AccountID:      input.AccountID,
		Type:           req.Type,
		Asset:          req.Asset,
		Amount:         req.Amount,
		IdempotencyKey: key,
	})
	if err != nil {
		err = sourceError(err)
		_ = guard.Fail(err)
		uc.finish(guard, result, req)

		uc.logger.Warn().
			Err(err).
			Str("account_id", input.AccountID).
			Str("type", string(req.Type)).
			Str("asset", string(req.Asset)).
			Msg("fund submission failed")
		return result, err
	}

	_ = guard.Succeed()
	result.Message = message

	if balances, err := uc.source.GetBalances(ctx, input.AccountID); err == nil {
		guard.Refresh(balances)
	} else {
		uc.logger.Warn().
			Err(err).
			Str("account_id", input.AccountID).
			Msg("balance refresh failed, keeping optimistic balance")
	}

	uc.finish(guard, result, req)

	uc.logger.Info().
		Str("account_id", input.AccountID).
		Str("type", string(req.Type)).
		Str("asset", string(req.Asset)).
		Str("amount", req.Amount.String()).
		Msg("fund submission accepted")

	return result, nil
}

// SubmitOnce seeds a fresh guard from the source and submits input.
func (uc *FundsUseCase) SubmitOnce(ctx context.Context, input SubmitFundsInput) (*SubmitFundsResult, error) {
	guard, err := uc.NewGuard(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	return uc.Submit(ctx, guard, input)
}

func (uc *FundsUseCase) finish(guard *domain.BalanceGuard, result *SubmitFundsResult, req domain.FundRequest) {
	result.State = guard.State()
	result.Confirmed = guard.Confirmed(req.Asset)
	result.Effective = guard.Balance(req.Asset)

	if uc.metrics != nil {
		uc.metrics.FundSubmissions.WithLabelValues(string(req.Type), string(result.State)).Inc()
	}

	_ = guard.Reset()
}

func (uc *FundsUseCase) sourceFailed(operation string) {
	if uc.metrics != nil {
		uc.metrics.SourceErrors.WithLabelValues(operation).Inc()
	}
}
