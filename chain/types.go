// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

// JSON shapes of the CosmWasm smart-query responses this service decodes.
// Amounts stay raw on-chain integer strings; conversion happens in the
// resolver.

// AmountTicker is the contracts' universal coin representation.
type AmountTicker struct {
	Amount string `json:"amount"`
	Ticker string `json:"ticker"`
}

// Amount wraps a bare amount value.
type Amount struct {
	Amount AmountTicker `json:"amount"`
}

// LeaseState is the opened/paid/closing view of a lease contract.
type LeaseState struct {
	Opened  *LeaseOpenedState `json:"opened,omitempty"`
	Paid    *Amount           `json:"paid,omitempty"`
	Closing *Amount           `json:"closing,omitempty"`
	Closed  *struct{}         `json:"closed,omitempty"`
}

// LeaseOpenedState is the open-position snapshot of a lease.
type LeaseOpenedState struct {
	Amount       AmountTicker  `json:"amount"`
	PrincipalDue AmountTicker  `json:"principal_due"`
	// Interest buckets; names changed across contract generations, both
	// are accepted and treated additively.
	OverdueMargin       *AmountTicker `json:"overdue_margin,omitempty"`
	OverdueInterest     *AmountTicker `json:"overdue_interest,omitempty"`
	DueMargin           *AmountTicker `json:"due_margin,omitempty"`
	DueInterest         *AmountTicker `json:"due_interest,omitempty"`
	PreviousMarginDue   *AmountTicker `json:"previous_margin_due,omitempty"`
	PreviousInterestDue *AmountTicker `json:"previous_interest_due,omitempty"`
	CurrentMarginDue    *AmountTicker `json:"current_margin_due,omitempty"`
	CurrentInterestDue  *AmountTicker `json:"current_interest_due,omitempty"`
}

// LeaseRawState is the raw contract-storage view of a lease, used by the
// market-close flow to distinguish full from partial closes.
type LeaseRawState struct {
	FullClose    *struct{} `json:"FullClose,omitempty"`
	PartialClose *struct{} `json:"PartialClose,omitempty"`
}

// LppPrice is the receipt price quote of a pool.
type LppPrice struct {
	Amount      AmountTicker `json:"amount"`
	AmountQuote AmountTicker `json:"amount_quote"`
}

// LppBalance is the lpp_balance query response.
type LppBalance struct {
	Balance          AmountTicker `json:"balance"`
	TotalPrincipalDue AmountTicker `json:"total_principal_due"`
	TotalInterestDue AmountTicker `json:"total_interest_due"`
	BalanceNlpn      AmountTicker `json:"balance_nlpn"`
}

// LppConfig is the config query response of a pool.
type LppConfig struct {
	LpnTicker      string `json:"lpn_ticker"`
	MinUtilization uint64 `json:"min_utilization"`
}

// OraclePrice is one price of the oracle's prices response.
type OraclePrice struct {
	Amount      AmountTicker `json:"amount"`
	AmountQuote AmountTicker `json:"amount_quote"`
}

// OraclePrices is the prices query response.
type OraclePrices struct {
	Prices []OraclePrice `json:"prices"`
}

// ReceiptBalance is the CW20-style balance response for LPN receipts.
type ReceiptBalance struct {
	Balance string `json:"balance"`
}

// ProtocolContracts is the contract set of one deployed protocol.
type ProtocolContracts struct {
	Leaser  string `json:"leaser"`
	Lpp     string `json:"lpp"`
	Oracle  string `json:"oracle"`
	Profit  string `json:"profit"`
	Reserve string `json:"reserve"`
}

// ProtocolConfig is the admin contract's per-protocol configuration,
// extended with the protocol name it was queried under.
type ProtocolConfig struct {
	Network   string            `json:"network"`
	Contracts ProtocolContracts `json:"contracts"`
	Protocol  string            `json:"-"`
}
