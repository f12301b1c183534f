// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"
)

// FieldNotExistError reports a required attribute missing from an event.
type FieldNotExistError struct {
	Key string
}

func (e *FieldNotExistError) Error() string {
	return fmt.Sprintf("field not exists: %s", e.Key)
}

// DuplicateFieldError reports the same attribute key appearing twice in
// one event.
type DuplicateFieldError struct {
	Key string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate field: %s", e.Key)
}

// parseAttributes flattens an attribute list into a map, rejecting
// duplicate keys.
func parseAttributes(attrs []abci.EventAttribute) (map[string]string, error) {
	data := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if _, ok := data[a.Key]; ok {
			return nil, &DuplicateFieldError{Key: a.Key}
		}
		data[a.Key] = a.Value
	}
	return data, nil
}

func field(data map[string]string, key string) (string, error) {
	v, ok := data[key]
	if !ok {
		return "", &FieldNotExistError{Key: key}
	}
	return v, nil
}

// fields resolves the given keys in order, stopping at the first error.
func fields(data map[string]string, keys ...string) ([]string, error) {
	out := make([]string, len(keys))
	for i, key := range keys {
		v, err := field(data, key)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// eitherField returns the legacy key's value when present, falling back to
// the current key. A missing pair is reported under the legacy name.
func eitherField(data map[string]string, legacy, current string) (string, error) {
	if v, ok := data[legacy]; ok {
		return v, nil
	}
	if v, ok := data[current]; ok {
		return v, nil
	}
	return "", &FieldNotExistError{Key: legacy}
}

func parseInterestValues(data map[string]string) (InterestValues, error) {
	var iv InterestValues
	var err error
	if iv.PrevMarginInterest, err = eitherField(data, "prev-margin-interest", "overdue-margin-interest"); err != nil {
		return iv, err
	}
	if iv.PrevLoanInterest, err = eitherField(data, "prev-loan-interest", "overdue-loan-interest"); err != nil {
		return iv, err
	}
	if iv.CurrMarginInterest, err = eitherField(data, "curr-margin-interest", "due-margin-interest"); err != nil {
		return iv, err
	}
	if iv.CurrLoanInterest, err = eitherField(data, "curr-loan-interest", "due-loan-interest"); err != nil {
		return iv, err
	}
	return iv, nil
}

// ParseLeaseOpen decodes a wasm-ls-open attribute list.
func ParseLeaseOpen(attrs []abci.EventAttribute) (*LeaseOpen, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data,
		"id", "customer", "currency", "air", "at",
		"loan-pool-id", "loan-amount", "loan-symbol",
		"downpayment-amount", "downpayment-symbol")
	if err != nil {
		return nil, err
	}
	return &LeaseOpen{
		ID:                vals[0],
		Customer:          vals[1],
		Currency:          vals[2],
		Air:               vals[3],
		At:                vals[4],
		LoanPoolID:        vals[5],
		LoanAmount:        vals[6],
		LoanSymbol:        vals[7],
		DownpaymentAmount: vals[8],
		DownpaymentSymbol: vals[9],
	}, nil
}

// ParseLeaseClose decodes a wasm-ls-close attribute list.
func ParseLeaseClose(attrs []abci.EventAttribute) (*LeaseClose, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data, "id", "at")
	if err != nil {
		return nil, err
	}
	return &LeaseClose{ID: vals[0], At: vals[1]}, nil
}

// ParseLeaseRepay decodes a wasm-ls-repay attribute list.
func ParseLeaseRepay(attrs []abci.EventAttribute) (*LeaseRepay, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	iv, err := parseInterestValues(data)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data,
		"height", "to", "payment-symbol", "payment-amount", "at",
		"loan-close", "principal")
	if err != nil {
		return nil, err
	}
	return &LeaseRepay{
		Height:        vals[0],
		To:            vals[1],
		PaymentSymbol: vals[2],
		PaymentAmount: vals[3],
		At:            vals[4],
		LoanClose:     vals[5],
		Interest:      iv,
		Principal:     vals[6],
	}, nil
}

// ParseLeaseClosePosition decodes a wasm-ls-close-position attribute list.
// Events without a height attribute carry no persistable state and yield
// (nil, nil).
func ParseLeaseClosePosition(attrs []abci.EventAttribute) (*LeaseClosePosition, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	if _, ok := data["height"]; !ok {
		return nil, nil
	}
	iv, err := parseInterestValues(data)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data,
		"height", "to", "change", "amount-amount", "amount-symbol",
		"payment-symbol", "payment-amount", "at", "loan-close", "principal")
	if err != nil {
		return nil, err
	}
	return &LeaseClosePosition{
		Height:        vals[0],
		To:            vals[1],
		Change:        vals[2],
		AmountAmount:  vals[3],
		AmountSymbol:  vals[4],
		PaymentSymbol: vals[5],
		PaymentAmount: vals[6],
		At:            vals[7],
		LoanClose:     vals[8],
		Interest:      iv,
		Principal:     vals[9],
	}, nil
}

// ParseLeaseLiquidation decodes a wasm-ls-liquidation attribute list.
func ParseLeaseLiquidation(attrs []abci.EventAttribute) (*LeaseLiquidation, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	iv, err := parseInterestValues(data)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data,
		"height", "to", "amount-symbol", "amount-amount",
		"payment-symbol", "payment-amount", "at", "cause", "loan-close",
		"principal")
	if err != nil {
		return nil, err
	}
	return &LeaseLiquidation{
		Height:        vals[0],
		To:            vals[1],
		AmountSymbol:  vals[2],
		AmountAmount:  vals[3],
		PaymentSymbol: vals[4],
		PaymentAmount: vals[5],
		At:            vals[6],
		Cause:         vals[7],
		LoanClose:     vals[8],
		Interest:      iv,
		Principal:     vals[9],
	}, nil
}

// ParseLeaseLiquidationWarning decodes a wasm-ls-liquidation-warning
// attribute list.
func ParseLeaseLiquidationWarning(attrs []abci.EventAttribute) (*LeaseLiquidationWarning, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data, "customer", "lease", "lease-asset", "level", "ltv")
	if err != nil {
		return nil, err
	}
	return &LeaseLiquidationWarning{
		Customer:   vals[0],
		Lease:      vals[1],
		LeaseAsset: vals[2],
		Level:      vals[3],
		LTV:        vals[4],
	}, nil
}

// ParseLeaseSlippageAnomaly decodes a wasm-ls-slippage-anomaly attribute
// list.
func ParseLeaseSlippageAnomaly(attrs []abci.EventAttribute) (*LeaseSlippageAnomaly, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data, "customer", "lease", "lease-asset", "max_slippage")
	if err != nil {
		return nil, err
	}
	return &LeaseSlippageAnomaly{
		Customer:    vals[0],
		Lease:       vals[1],
		LeaseAsset:  vals[2],
		MaxSlippage: vals[3],
	}, nil
}

// ParseLeaseAutoClosePosition decodes a wasm-ls-auto-close-position
// attribute list.
func ParseLeaseAutoClosePosition(attrs []abci.EventAttribute) (*LeaseAutoClosePosition, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	to, err := field(data, "to")
	if err != nil {
		return nil, err
	}
	out := &LeaseAutoClosePosition{To: to}
	if v, ok := data["take-profit-ltv"]; ok {
		out.TakeProfitLTV = &v
	}
	if v, ok := data["stop-loss-ltv"]; ok {
		out.StopLossLTV = &v
	}
	return out, nil
}

// ParseReserveCoverLoss decodes a wasm-reserve-cover-loss attribute list.
func ParseReserveCoverLoss(attrs []abci.EventAttribute) (*ReserveCoverLoss, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data, "to", "payment-symbol", "payment-amount")
	if err != nil {
		return nil, err
	}
	return &ReserveCoverLoss{
		To:            vals[0],
		PaymentSymbol: vals[1],
		PaymentAmount: vals[2],
	}, nil
}

// ParseLPDeposit decodes a wasm-lp-deposit attribute list.
func ParseLPDeposit(attrs []abci.EventAttribute) (*LPDeposit, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data,
		"height", "from", "to", "at",
		"deposit-amount", "deposit-symbol", "receipts")
	if err != nil {
		return nil, err
	}
	return &LPDeposit{
		Height:        vals[0],
		From:          vals[1],
		To:            vals[2],
		At:            vals[3],
		DepositAmount: vals[4],
		DepositSymbol: vals[5],
		Receipts:      vals[6],
	}, nil
}

// ParseLPWithdraw decodes a wasm-lp-withdraw attribute list.
func ParseLPWithdraw(attrs []abci.EventAttribute) (*LPWithdraw, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data,
		"height", "from", "to", "at",
		"withdraw-amount", "withdraw-symbol", "receipts", "close")
	if err != nil {
		return nil, err
	}
	return &LPWithdraw{
		Height:         vals[0],
		From:           vals[1],
		To:             vals[2],
		At:             vals[3],
		WithdrawAmount: vals[4],
		WithdrawSymbol: vals[5],
		Receipts:       vals[6],
		Close:          vals[7],
	}, nil
}

// ParseTreasuryProfit decodes a wasm-tr-profit attribute list.
func ParseTreasuryProfit(attrs []abci.EventAttribute) (*TreasuryProfit, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data,
		"height", "at", "profit-amount-symbol", "profit-amount-amount")
	if err != nil {
		return nil, err
	}
	return &TreasuryProfit{
		Height:       vals[0],
		At:           vals[1],
		ProfitSymbol: vals[2],
		ProfitAmount: vals[3],
	}, nil
}

// ParseTreasuryRewards decodes a wasm-tr-rewards attribute list.
func ParseTreasuryRewards(attrs []abci.EventAttribute) (*TreasuryRewards, error) {
	data, err := parseAttributes(attrs)
	if err != nil {
		return nil, err
	}
	vals, err := fields(data,
		"height", "to", "at", "rewards-symbol", "rewards-amount")
	if err != nil {
		return nil, err
	}
	return &TreasuryRewards{
		Height:        vals[0],
		To:            vals[1],
		At:            vals[2],
		RewardsSymbol: vals[3],
		RewardsAmount: vals[4],
	}, nil
}
