package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateWithdrawal checks a withdrawal against the last known balances.
// It returns an *InsufficientBalanceError when amount exceeds the balance.
// The asset is matched case-insensitively.
func ValidateWithdrawal(asset Asset, amount decimal.Decimal, balances Balances) error {
	parsed, err := ParseAsset(string(asset))
	if err != nil {
		return fmt.Errorf("%w: %q", err, asset)
	}
	asset = parsed

	if err := ValidateAmount(amount); err != nil {
		return err
	}

	available := balances.Get(asset)
	if amount.GreaterThan(available) {
		return &InsufficientBalanceError{
			Asset:     asset,
			Requested: amount,
			Available: available,
		}
	}

	return nil
}

// FundRequest is a deposit or withdrawal about to be submitted.
type FundRequest struct {
	Type   TransactionType
	Asset  Asset
	Amount decimal.Decimal
}

// Normalize returns the request with its type and asset in canonical form.
func (r FundRequest) Normalize() (FundRequest, error) {
	txType, err := ParseTransactionType(string(r.Type))
	if err != nil {
		return r, fmt.Errorf("%w: %q", ErrInvalidTransactionType, r.Type)
	}
	asset, err := ParseAsset(string(r.Asset))
	if err != nil {
		return r, fmt.Errorf("%w: %q", err, r.Asset)
	}
	r.Type = txType
	r.Asset = asset
	return r, nil
}

// Validate checks the request against balances. Deposits only need a valid
// asset and amount.
func (r FundRequest) Validate(balances Balances) error {
	r, err := r.Normalize()
	if err != nil {
		return err
	}

	if r.Type == TransactionWithdrawal {
		return ValidateWithdrawal(r.Asset, r.Amount, balances)
	}
	return ValidateAmount(r.Amount)
}

// Delta returns the balance change the request causes once accepted.
func (r FundRequest) Delta() decimal.Decimal {
	if r.Type == TransactionWithdrawal {
		return r.Amount.Neg()
	}
	return r.Amount
}

// GuardState is the state of a BalanceGuard.
type GuardState string

const (
	GuardIdle       GuardState = "IDLE"
	GuardSubmitting GuardState = "SUBMITTING"
	GuardSuccess    GuardState = "SUCCESS"
	GuardFailed     GuardState = "FAILED"
)

// BalanceGuard validates fund submissions against the last known balances
// and keeps optimistic deltas for accepted submissions until the next
// authoritative refresh. It is owned by a single session and is not safe
// for concurrent use.
type BalanceGuard struct {
	confirmed Balances
	pending   Balances
	inFlight  *FundRequest
	lastErr   error
	state     GuardState
}

// NewBalanceGuard creates a guard seeded with authoritative balances.
func NewBalanceGuard(balances Balances) *BalanceGuard {
	return &BalanceGuard{
		confirmed: balances.Clone(),
		pending:   Balances{},
		state:     GuardIdle,
	}
}

// State returns the current state.
func (g *BalanceGuard) State() GuardState {
	return g.state
}

// Err returns the error of the last failed submission.
func (g *BalanceGuard) Err() error {
	return g.lastErr
}

// Refresh replaces the confirmed balances with an authoritative snapshot and
// discards every optimistic delta.
func (g *BalanceGuard) Refresh(balances Balances) {
	g.confirmed = balances.Clone()
	g.pending = Balances{}
}

// Confirmed returns the last authoritative balance of an asset.
func (g *BalanceGuard) Confirmed(asset Asset) decimal.Decimal {
	return g.confirmed.Get(asset)
}

// Balance returns the confirmed balance plus any optimistic delta.
func (g *BalanceGuard) Balance(asset Asset) decimal.Decimal {
	return g.confirmed.Get(asset).Add(g.pending.Get(asset))
}

// Effective returns all balances including optimistic deltas.
func (g *BalanceGuard) Effective() Balances {
	out := g.confirmed.Clone()
	for asset, delta := range g.pending {
		out[asset] = out.Get(asset).Add(delta)
	}
	return out
}

// Begin validates the request and moves IDLE -> SUBMITTING. A validation
// failure leaves the guard untouched.
func (g *BalanceGuard) Begin(req FundRequest) error {
	if g.state != GuardIdle {
		return ErrSubmissionInProgress
	}

	req, err := req.Normalize()
	if err != nil {
		return err
	}
	if err := req.Validate(g.Effective()); err != nil {
		return err
	}

	g.inFlight = &req
	g.lastErr = nil
	g.state = GuardSubmitting
	return nil
}

// Succeed moves SUBMITTING -> SUCCESS and applies the optimistic delta.
func (g *BalanceGuard) Succeed() error {
	if g.state != GuardSubmitting {
		return fmt.Errorf("%w: succeed from %s", ErrInvalidGuardTransition, g.state)
	}

	req := g.inFlight
	g.pending[req.Asset] = g.pending.Get(req.Asset).Add(req.Delta())
	g.inFlight = nil
	g.state = GuardSuccess
	return nil
}

// Fail moves SUBMITTING -> FAILED without changing any balance.
func (g *BalanceGuard) Fail(err error) error {
	if g.state != GuardSubmitting {
		return fmt.Errorf("%w: fail from %s", ErrInvalidGuardTransition, g.state)
	}

	g.inFlight = nil
	g.lastErr = err
	g.state = GuardFailed
	return nil
}

// Reset moves SUCCESS or FAILED back to IDLE.
func (g *BalanceGuard) Reset() error {
	switch g.state {
	case GuardSuccess, GuardFailed:
		g.state = GuardIdle
		return nil
	case GuardIdle:
		return nil
	default:
		return fmt.Errorf("%w: reset from %s", ErrInvalidGuardTransition, g.state)
	}
}
