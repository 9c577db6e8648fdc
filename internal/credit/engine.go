package credit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/db/models"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/enums"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Validation is the outcome of a tiered credit check. It is purely
// informational; nothing is reserved until Deduct runs.
type Validation struct {
	CanCreate      bool                 `json:"can_create"`
	LimitingFactor enums.LimitingFactor `json:"limiting_factor"`
	Company        CompanyCredit        `json:"company"`
	User           UserCredit           `json:"user"`
	Shortfall      decimal.Decimal      `json:"shortfall"`
	Message        string               `json:"message"`
}

// DeductInput carries one reservation request. Reason dedupes at-least-once
// deliveries: a transaction with the same (OrderID, Reason) already in the
// ledger turns the call into a no-op.
type DeductInput struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	Type      enums.CreditTransactionType
	Reason    string
}

// RestoreInput carries one release request, keyed like DeductInput.
type RestoreInput struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	Type      enums.CreditTransactionType
	Reason    string
}

// Engine is the sole authority for mutating credit usage. Deduct and Restore
// re-derive balances inside the same transaction that writes them, so a stale
// Validation result can never overspend.
type Engine struct {
	repo Repository
	calc *Calculator
	tx   txRunner
	logg *logger.Logger
}

// NewEngine wires the reservation engine.
func NewEngine(repo Repository, tx txRunner, logg *logger.Logger) (*Engine, error) {
	if repo == nil {
		return nil, fmt.Errorf("credit repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	calc, err := NewCalculator(repo)
	if err != nil {
		return nil, err
	}
	return &Engine{repo: repo, calc: calc, tx: tx, logg: logg}, nil
}

// Calculator exposes the read-only tier computations.
func (e *Engine) Calculator() *Calculator {
	return e.calc
}

// ValidateOrder checks an amount against both tiers without mutating state.
func (e *Engine) ValidateOrder(ctx context.Context, companyID, userID uuid.UUID, amount decimal.Decimal) (*Validation, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount must be positive")
	}
	return e.validate(ctx, e.calc, companyID, userID, amount)
}

func (e *Engine) validate(ctx context.Context, calc *Calculator, companyID, userID uuid.UUID, amount decimal.Decimal) (*Validation, error) {
	user, company, err := calc.UserAvailableCredit(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}

	binding := decimal.Min(company.AvailableCredit, user.AvailableCredit)
	result := &Validation{
		CanCreate: amount.LessThanOrEqual(binding),
		Company:   *company,
		User:      *user,
	}

	// The company tier wins ties so the reported factor is deterministic.
	if company.AvailableCredit.LessThanOrEqual(user.AvailableCredit) {
		result.LimitingFactor = enums.LimitingFactorCompany
	} else {
		result.LimitingFactor = enums.LimitingFactorUser
	}

	if result.CanCreate {
		result.Message = "sufficient credit at both tiers"
	} else {
		result.Shortfall = amount.Sub(binding)
		result.Message = fmt.Sprintf(
			"insufficient %s credit: requested %s, available %s, short %s",
			result.LimitingFactor, amount.StringFixed(2), binding.StringFixed(2), result.Shortfall.StringFixed(2),
		)
	}
	return result, nil
}

// Deduct reserves credit in its own transaction.
func (e *Engine) Deduct(ctx context.Context, input DeductInput) (bool, error) {
	var applied bool
	err := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		applied, txErr = e.DeductTx(ctx, tx, input)
		return txErr
	})
	return applied, err
}

// DeductTx reserves credit inside the caller's transaction. The caller is
// responsible for reflecting the reservation on the order row (credit_used)
// within the same transaction. The returned bool reports whether a ledger
// entry was written; false means the (OrderID, Reason) pair was already
// applied and the caller must not change any mirrored usage.
func (e *Engine) DeductTx(ctx context.Context, tx *gorm.DB, input DeductInput) (bool, error) {
	if err := normalizeDeduct(&input); err != nil {
		return false, err
	}

	repo := e.repo.WithTx(tx)

	replay, err := repo.HasTransaction(ctx, input.OrderID, input.Reason)
	if err != nil {
		return false, err
	}
	if replay {
		e.warn(ctx, input.OrderID, "credit deduction replay ignored")
		return false, nil
	}

	if err := repo.LockCompany(ctx, input.CompanyID); err != nil {
		return false, err
	}

	// Re-derive balances under the lock; a Validation computed before this
	// transaction cannot be trusted across the await gap.
	check, err := e.validate(ctx, e.calc.WithRepo(repo), input.CompanyID, input.UserID, input.Amount)
	if err != nil {
		return false, err
	}
	if !check.CanCreate {
		return false, pkgerrors.New(pkgerrors.CodeInsufficientCredit, check.Message).WithDetails(map[string]any{
			"limiting_factor": check.LimitingFactor,
			"shortfall":       check.Shortfall.StringFixed(2),
			"requested":       input.Amount.StringFixed(2),
		})
	}

	user, err := repo.FindUser(ctx, input.UserID)
	if err != nil {
		return false, err
	}
	user.CreditUsed = user.CreditUsed.Add(input.Amount)
	if err := repo.SaveUser(ctx, user); err != nil {
		return false, err
	}

	previous := check.Company.AvailableCredit
	entry := &models.CreditTransaction{
		CompanyID:       input.CompanyID,
		OrderID:         &input.OrderID,
		UserID:          &input.UserID,
		Type:            input.Type,
		Reason:          input.Reason,
		Amount:          input.Amount.Neg(),
		PreviousBalance: previous,
		NewBalance:      previous.Sub(input.Amount),
	}
	if err := repo.AppendTransaction(ctx, entry); err != nil {
		return false, err
	}
	return true, nil
}

// Restore releases credit in its own transaction.
func (e *Engine) Restore(ctx context.Context, input RestoreInput) (bool, error) {
	var applied bool
	err := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		applied, txErr = e.RestoreTx(ctx, tx, input)
		return txErr
	})
	return applied, err
}

// RestoreTx releases previously reserved credit inside the caller's
// transaction. Safe on orders that never deducted: the ledger lookup turns the
// call into a no-op instead of driving balances negative. The returned bool
// follows the DeductTx contract.
func (e *Engine) RestoreTx(ctx context.Context, tx *gorm.DB, input RestoreInput) (bool, error) {
	if err := normalizeRestore(&input); err != nil {
		return false, err
	}

	repo := e.repo.WithTx(tx)

	replay, err := repo.HasTransaction(ctx, input.OrderID, input.Reason)
	if err != nil {
		return false, err
	}
	if replay {
		e.warn(ctx, input.OrderID, "credit restore replay ignored")
		return false, nil
	}

	if err := repo.LockCompany(ctx, input.CompanyID); err != nil {
		return false, err
	}

	held, err := repo.NetReserved(ctx, input.OrderID)
	if err != nil {
		return false, err
	}
	// Ledger deltas are signed; held is negative while credit is reserved.
	reserved := held.Neg()
	if reserved.LessThanOrEqual(decimal.Zero) {
		e.warnInconsistent(ctx, input.OrderID, "credit restore without prior deduction ignored")
		return false, nil
	}

	amount := decimal.Min(input.Amount, reserved)
	if amount.LessThan(input.Amount) {
		e.warnInconsistent(ctx, input.OrderID, "credit restore clamped to reserved amount")
	}

	user, err := repo.FindUser(ctx, input.UserID)
	if err != nil {
		return false, err
	}
	user.CreditUsed = user.CreditUsed.Sub(amount)
	if user.CreditUsed.IsNegative() {
		user.CreditUsed = decimal.Zero
	}
	if err := repo.SaveUser(ctx, user); err != nil {
		return false, err
	}

	company, err := e.calc.WithRepo(repo).AvailableCredit(ctx, input.CompanyID)
	if err != nil {
		return false, err
	}
	entry := &models.CreditTransaction{
		CompanyID:       input.CompanyID,
		OrderID:         &input.OrderID,
		UserID:          &input.UserID,
		Type:            input.Type,
		Reason:          input.Reason,
		Amount:          amount,
		PreviousBalance: company.AvailableCredit,
		NewBalance:      company.AvailableCredit.Add(amount),
	}
	if err := repo.AppendTransaction(ctx, entry); err != nil {
		return false, err
	}
	return true, nil
}

func normalizeDeduct(input *DeductInput) error {
	if input.CompanyID == uuid.Nil || input.UserID == uuid.Nil || input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "company, user, and order ids are required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "deduction amount must be positive")
	}
	if !input.Type.IsValid() || input.Type.Release() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid deduction type %q", input.Type))
	}
	if input.Reason == "" {
		input.Reason = string(input.Type)
	}
	return nil
}

func normalizeRestore(input *RestoreInput) error {
	if input.CompanyID == uuid.Nil || input.UserID == uuid.Nil || input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "company, user, and order ids are required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "restore amount must be positive")
	}
	if !input.Type.IsValid() || !input.Type.Release() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid restore type %q", input.Type))
	}
	if input.Reason == "" {
		input.Reason = string(input.Type)
	}
	return nil
}

func (e *Engine) warn(ctx context.Context, orderID uuid.UUID, msg string) {
	if e.logg == nil {
		return
	}
	e.logg.Warn(e.logg.WithOrderID(ctx, orderID.String()), msg)
}

// warnInconsistent marks conditions where the order mirror and the ledger
// disagree about how much credit an order holds.
func (e *Engine) warnInconsistent(ctx context.Context, orderID uuid.UUID, msg string) {
	if e.logg == nil {
		return
	}
	ctx = e.logg.WithOrderID(ctx, orderID.String())
	ctx = e.logg.WithField(ctx, "error_code", string(pkgerrors.CodeLedgerInconsistent))
	e.logg.Warn(ctx, msg)
}
