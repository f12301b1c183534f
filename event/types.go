// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package event parses raw contract-event attributes into typed records.
// The catalogue is closed: only the wasm-* types below are decoded, every
// other event type is skipped by the dispatcher.
package event

// Event type strings emitted by the lease, pool and treasury contracts.
const (
	TypeLeaseOpen               = "wasm-ls-open"
	TypeLeaseClose              = "wasm-ls-close"
	TypeLeaseClosePosition      = "wasm-ls-close-position"
	TypeLeaseRepay              = "wasm-ls-repay"
	TypeLeaseLiquidation        = "wasm-ls-liquidation"
	TypeLeaseLiquidationWarning = "wasm-ls-liquidation-warning"
	TypeLeaseSlippageAnomaly    = "wasm-ls-slippage-anomaly"
	TypeLeaseAutoClosePosition  = "wasm-ls-auto-close-position"
	TypeReserveCoverLoss        = "wasm-reserve-cover-loss"
	TypeLPDeposit               = "wasm-lp-deposit"
	TypeLPWithdraw              = "wasm-lp-withdraw"
	TypeTreasuryProfit          = "wasm-tr-profit"
	TypeTreasuryRewards         = "wasm-tr-rewards"
)

// Known reports whether the dispatcher handles the given event type.
func Known(eventType string) bool {
	switch eventType {
	case TypeLeaseOpen, TypeLeaseClose, TypeLeaseClosePosition,
		TypeLeaseRepay, TypeLeaseLiquidation, TypeLeaseLiquidationWarning,
		TypeLeaseSlippageAnomaly, TypeLeaseAutoClosePosition,
		TypeReserveCoverLoss, TypeLPDeposit, TypeLPWithdraw,
		TypeTreasuryProfit, TypeTreasuryRewards:
		return true
	}
	return false
}

// InterestValues are the four interest amounts of repayment, close-position
// and liquidation events. Attribute names changed upstream at some point;
// the codec accepts both generations, legacy first.
type InterestValues struct {
	PrevMarginInterest string
	PrevLoanInterest   string
	CurrMarginInterest string
	CurrLoanInterest   string
}

// LeaseOpen is the wasm-ls-open record.
type LeaseOpen struct {
	ID                string
	Customer          string
	Currency          string
	Air               string
	At                string
	LoanPoolID        string
	LoanAmount        string
	LoanSymbol        string
	DownpaymentAmount string
	DownpaymentSymbol string
}

// LeaseClose is the wasm-ls-close record.
type LeaseClose struct {
	ID string
	At string
}

// LeaseRepay is the wasm-ls-repay record.
type LeaseRepay struct {
	Height        string
	To            string
	PaymentSymbol string
	PaymentAmount string
	At            string
	LoanClose     string
	Interest      InterestValues
	Principal     string
}

// LeaseClosePosition is the wasm-ls-close-position record. Events without
// a height attribute are not decoded.
type LeaseClosePosition struct {
	Height        string
	To            string
	Change        string
	AmountAmount  string
	AmountSymbol  string
	PaymentSymbol string
	PaymentAmount string
	At            string
	LoanClose     string
	Interest      InterestValues
	Principal     string
}

// LeaseLiquidation is the wasm-ls-liquidation record. Cause carries the
// contract's liquidation cause verbatim.
type LeaseLiquidation struct {
	Height        string
	To            string
	AmountSymbol  string
	AmountAmount  string
	PaymentSymbol string
	PaymentAmount string
	At            string
	Cause         string
	LoanClose     string
	Interest      InterestValues
	Principal     string
}

// LeaseLiquidationWarning is the wasm-ls-liquidation-warning record.
type LeaseLiquidationWarning struct {
	Customer   string
	Lease      string
	LeaseAsset string
	Level      string
	LTV        string
}

// LeaseSlippageAnomaly is the wasm-ls-slippage-anomaly record.
type LeaseSlippageAnomaly struct {
	Customer    string
	Lease       string
	LeaseAsset  string
	MaxSlippage string
}

// LeaseAutoClosePosition is the wasm-ls-auto-close-position record. The
// two trigger levels are optional; at least in practice one is set.
type LeaseAutoClosePosition struct {
	To            string
	TakeProfitLTV *string
	StopLossLTV   *string
}

// ReserveCoverLoss is the wasm-reserve-cover-loss record.
type ReserveCoverLoss struct {
	To            string
	PaymentSymbol string
	PaymentAmount string
}

// LPDeposit is the wasm-lp-deposit record.
type LPDeposit struct {
	Height        string
	From          string
	To            string
	At            string
	DepositAmount string
	DepositSymbol string
	Receipts      string
}

// LPWithdraw is the wasm-lp-withdraw record.
type LPWithdraw struct {
	Height         string
	From           string
	To             string
	At             string
	WithdrawAmount string
	WithdrawSymbol string
	Receipts       string
	Close          string
}

// TreasuryProfit is the wasm-tr-profit record.
type TreasuryProfit struct {
	Height       string
	At           string
	ProfitSymbol string
	ProfitAmount string
}

// TreasuryRewards is the wasm-tr-rewards record.
type TreasuryRewards struct {
	Height        string
	To            string
	At            string
	RewardsSymbol string
	RewardsAmount string
}
