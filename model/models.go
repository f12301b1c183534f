// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package model holds the row types of every table the ETL writes. Amounts
// and prices are arbitrary-precision decimals at on-chain integer scale;
// scaling to human units is a read-side concern.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Block marks a fully-processed height. A row exists iff every event and
// raw message of that height was persisted in the same transaction.
type Block struct {
	ID int64 `db:"id"`
}

// LSOpening is the single row per lease contract, written at open.
type LSOpening struct {
	TxHash                   string              `db:"Tx_Hash"`
	ContractID               string              `db:"LS_contract_id"`
	AddressID                string              `db:"LS_address_id"`
	AssetSymbol              string              `db:"LS_asset_symbol"`
	Interest                 int16               `db:"LS_interest"`
	Timestamp                time.Time           `db:"LS_timestamp"`
	LoanPoolID               string              `db:"LS_loan_pool_id"`
	LoanAmnt                 decimal.Decimal     `db:"LS_loan_amnt"`
	LoanAmntStable           decimal.Decimal     `db:"LS_loan_amnt_stable"`
	LoanAmntAsset            decimal.Decimal     `db:"LS_loan_amnt_asset"`
	CltrSymbol               string              `db:"LS_cltr_symbol"`
	CltrAmntStable           decimal.Decimal     `db:"LS_cltr_amnt_stable"`
	CltrAmntAsset            decimal.Decimal     `db:"LS_cltr_amnt_asset"`
	NativeAmntStable         decimal.Decimal     `db:"LS_native_amnt_stable"`
	NativeAmntNolus          decimal.Decimal     `db:"LS_native_amnt_nolus"`
	LpnLoanAmnt              decimal.Decimal     `db:"LS_lpn_loan_amnt"`
	PositionType             *string             `db:"LS_position_type"`
	LpnSymbol                *string             `db:"LS_lpn_symbol"`
	LpnDecimals              *int32              `db:"LS_lpn_decimals"`
	OpeningPrice             *decimal.Decimal    `db:"LS_opening_price"`
	LiquidationPriceAtOpen   *decimal.Decimal    `db:"LS_liquidation_price_at_open"`
}

// LSClosing records a borrower-driven full close.
type LSClosing struct {
	TxHash     string    `db:"Tx_Hash"`
	ContractID string    `db:"LS_contract_id"`
	Timestamp  time.Time `db:"LS_timestamp"`
}

// LSRepayment is one interest/principal repayment event.
type LSRepayment struct {
	TxHash                string          `db:"Tx_Hash"`
	Height                int64           `db:"LS_repayment_height"`
	ContractID            string          `db:"LS_contract_id"`
	PaymentSymbol         string          `db:"LS_payment_symbol"`
	PaymentAmnt           decimal.Decimal `db:"LS_payment_amnt"`
	PaymentAmntStable     decimal.Decimal `db:"LS_payment_amnt_stable"`
	Timestamp             time.Time       `db:"LS_timestamp"`
	LoanClose             bool            `db:"LS_loan_close"`
	PrevMarginStable      decimal.Decimal `db:"LS_prev_margin_stable"`
	PrevInterestStable    decimal.Decimal `db:"LS_prev_interest_stable"`
	CurrentMarginStable   decimal.Decimal `db:"LS_current_margin_stable"`
	CurrentInterestStable decimal.Decimal `db:"LS_current_interest_stable"`
	PrincipalStable       decimal.Decimal `db:"LS_principal_stable"`
}

// LSClosePosition is a market-driven partial or full close.
type LSClosePosition struct {
	TxHash                string          `db:"Tx_Hash"`
	Height                int64           `db:"LS_position_height"`
	ContractID            string          `db:"LS_contract_id"`
	Change                decimal.Decimal `db:"LS_change"`
	AmntSymbol            string          `db:"LS_amnt_symbol"`
	Amnt                  decimal.Decimal `db:"LS_amnt"`
	AmntStable            decimal.Decimal `db:"LS_amnt_stable"`
	PaymentSymbol         string          `db:"LS_payment_symbol"`
	PaymentAmnt           decimal.Decimal `db:"LS_payment_amnt"`
	PaymentAmntStable     decimal.Decimal `db:"LS_payment_amnt_stable"`
	Timestamp             time.Time       `db:"LS_timestamp"`
	LoanClose             bool            `db:"LS_loan_close"`
	PrevMarginStable      decimal.Decimal `db:"LS_prev_margin_stable"`
	PrevInterestStable    decimal.Decimal `db:"LS_prev_interest_stable"`
	CurrentMarginStable   decimal.Decimal `db:"LS_current_margin_stable"`
	CurrentInterestStable decimal.Decimal `db:"LS_current_interest_stable"`
	PrincipalStable       decimal.Decimal `db:"LS_principal_stable"`
}

// LSLiquidation is one liquidation event.
type LSLiquidation struct {
	TxHash                string          `db:"Tx_Hash"`
	Height                int64           `db:"LS_liquidation_height"`
	ContractID            string          `db:"LS_contract_id"`
	AmntSymbol            string          `db:"LS_amnt_symbol"`
	Amnt                  decimal.Decimal `db:"LS_amnt"`
	AmntStable            decimal.Decimal `db:"LS_amnt_stable"`
	PaymentSymbol         string          `db:"LS_payment_symbol"`
	PaymentAmnt           decimal.Decimal `db:"LS_payment_amnt"`
	PaymentAmntStable     decimal.Decimal `db:"LS_payment_amnt_stable"`
	Timestamp             time.Time       `db:"LS_timestamp"`
	TransactionType       string          `db:"LS_transaction_type"`
	LoanClose             bool            `db:"LS_loan_close"`
	PrevMarginStable      decimal.Decimal `db:"LS_prev_margin_stable"`
	PrevInterestStable    decimal.Decimal `db:"LS_prev_interest_stable"`
	CurrentMarginStable   decimal.Decimal `db:"LS_current_margin_stable"`
	CurrentInterestStable decimal.Decimal `db:"LS_current_interest_stable"`
	PrincipalStable       decimal.Decimal `db:"LS_principal_stable"`
}

// LSLiquidationWarning is an LTV warning emitted before liquidation.
type LSLiquidationWarning struct {
	TxHash     string          `db:"Tx_Hash"`
	ContractID string          `db:"LS_contract_id"`
	AddressID  string          `db:"LS_address_id"`
	AssetSymbol string         `db:"LS_asset_symbol"`
	Level      int16           `db:"LS_level"`
	LTV        decimal.Decimal `db:"LS_ltv"`
	Timestamp  time.Time       `db:"LS_timestamp"`
}

// LSSlippageAnomaly records a slippage-protection breach.
type LSSlippageAnomaly struct {
	TxHash      string          `db:"Tx_Hash"`
	ContractID  string          `db:"LS_contract_id"`
	AddressID   string          `db:"LS_address_id"`
	AssetSymbol string          `db:"LS_asset_symbol"`
	MaxSlippage decimal.Decimal `db:"LS_max_slippage"`
	Timestamp   time.Time       `db:"LS_timestamp"`
}

// LSAutoClosePosition records a take-profit / stop-loss trigger update.
type LSAutoClosePosition struct {
	TxHash        string    `db:"Tx_Hash"`
	ContractID    string    `db:"LS_contract_id"`
	TakeProfitLTV *int32    `db:"LS_take_profit_ltv"`
	StopLossLTV   *int32    `db:"LS_stop_loss_ltv"`
	Timestamp     time.Time `db:"LS_timestamp"`
}

// ReserveCoverLoss records the reserve absorbing a liquidation shortfall.
type ReserveCoverLoss struct {
	TxHash          string          `db:"Tx_Hash"`
	ContractID      string          `db:"LS_contract_id"`
	PaymentSymbol   string          `db:"LS_payment_symbol"`
	PaymentAmnt     decimal.Decimal `db:"LS_payment_amnt"`
	Timestamp       time.Time       `db:"LS_timestamp"`
	EventBlockIndex int32           `db:"Event_Block_Index"`
}

// LPDeposit is one liquidity-provider deposit.
type LPDeposit struct {
	TxHash       string          `db:"Tx_Hash"`
	Height       int64           `db:"LP_deposit_height"`
	AddressID    string          `db:"LP_address_id"`
	Timestamp    time.Time       `db:"LP_timestamp"`
	PoolID       string          `db:"LP_Pool_id"`
	AmntStable   decimal.Decimal `db:"LP_amnt_stable"`
	AmntAsset    decimal.Decimal `db:"LP_amnt_asset"`
	AmntReceipts decimal.Decimal `db:"LP_amnt_receipts"`
}

// LPWithdraw is one liquidity-provider withdrawal.
type LPWithdraw struct {
	TxHash       string          `db:"Tx_Hash"`
	Height       int64           `db:"LP_withdraw_height"`
	AddressID    string          `db:"LP_address_id"`
	Timestamp    time.Time       `db:"LP_timestamp"`
	PoolID       string          `db:"LP_Pool_id"`
	AmntStable   decimal.Decimal `db:"LP_amnt_stable"`
	AmntAsset    decimal.Decimal `db:"LP_amnt_asset"`
	AmntReceipts decimal.Decimal `db:"LP_amnt_receipts"`
	DepositClose bool            `db:"LP_deposit_close"`
}

// LPPool is the slowly-changing pool reference row.
type LPPool struct {
	PoolID string `db:"LP_Pool_id"`
	Symbol string `db:"LP_symbol"`
	Status bool   `db:"LP_status"`
}

// MPAsset is one oracle price observation. Append-only.
type MPAsset struct {
	Symbol        string          `db:"MP_asset_symbol"`
	Timestamp     time.Time       `db:"MP_asset_timestamp"`
	PriceInStable decimal.Decimal `db:"MP_price_in_stable"`
	Protocol      string          `db:"Protocol"`
}

// TRProfit is one treasury profit event.
type TRProfit struct {
	TxHash          string          `db:"Tx_Hash"`
	Height          int64           `db:"TR_Profit_height"`
	Timestamp       time.Time       `db:"TR_Profit_timestamp"`
	AmntStable      decimal.Decimal `db:"TR_Profit_amnt_stable"`
	AmntNls         decimal.Decimal `db:"TR_Profit_amnt_nls"`
}

// TRRewardsDistribution is one rewards distribution event.
type TRRewardsDistribution struct {
	TxHash          string          `db:"Tx_Hash"`
	Height          int64           `db:"TR_Rewards_height"`
	PoolID          string          `db:"TR_Rewards_Pool_id"`
	Timestamp       time.Time       `db:"TR_Rewards_timestamp"`
	AmntStable      decimal.Decimal `db:"TR_Rewards_amnt_stable"`
	AmntNls         decimal.Decimal `db:"TR_Rewards_amnt_nls"`
	EventBlockIndex int32           `db:"Event_Block_Index"`
}

// Snapshot rows. Every snapshot of one aggregation run carries the exact
// same timestamp.

type LSState struct {
	ContractID            string          `db:"LS_contract_id"`
	Timestamp             time.Time       `db:"LS_timestamp"`
	Amnt                  decimal.Decimal `db:"LS_amnt"`
	AmntStable            decimal.Decimal `db:"LS_amnt_stable"`
	PrevMarginStable      decimal.Decimal `db:"LS_prev_margin_stable"`
	PrevInterestStable    decimal.Decimal `db:"LS_prev_interest_stable"`
	CurrentMarginStable   decimal.Decimal `db:"LS_current_margin_stable"`
	CurrentInterestStable decimal.Decimal `db:"LS_current_interest_stable"`
	PrincipalStable       decimal.Decimal `db:"LS_principal_stable"`
}

type LPLenderState struct {
	LenderID  string          `db:"LP_Lender_id"`
	PoolID    string          `db:"LP_Pool_id"`
	Timestamp time.Time       `db:"LP_timestamp"`
	Stable    decimal.Decimal `db:"LP_Lender_stable"`
	Asset     decimal.Decimal `db:"LP_Lender_asset"`
	Receipts  decimal.Decimal `db:"LP_Lender_receipts"`
}

type LPPoolState struct {
	PoolID                  string          `db:"LP_Pool_id"`
	Timestamp               time.Time       `db:"LP_Pool_timestamp"`
	TotalValueLockedStable  decimal.Decimal `db:"LP_Pool_total_value_locked_stable"`
	TotalValueLockedAsset   decimal.Decimal `db:"LP_Pool_total_value_locked_asset"`
	TotalIssuedReceipts     decimal.Decimal `db:"LP_Pool_total_issued_receipts"`
	TotalBorrowedStable     decimal.Decimal `db:"LP_Pool_total_borrowed_stable"`
	TotalBorrowedAsset      decimal.Decimal `db:"LP_Pool_total_borrowed_asset"`
	TotalYieldStable        decimal.Decimal `db:"LP_Pool_total_yield_stable"`
	TotalYieldAsset         decimal.Decimal `db:"LP_Pool_total_yield_asset"`
	MinUtilizationThreshold decimal.Decimal `db:"LP_Pool_min_utilization_threshold"`
}

type TRState struct {
	Timestamp  time.Time       `db:"TR_timestamp"`
	AmntStable decimal.Decimal `db:"TR_amnt_stable"`
	AmntNls    decimal.Decimal `db:"TR_amnt_nls"`
}

// PLState is the consolidated profit/loss row of one aggregation tick. All
// windowed fields cover (previous tick, this tick].
type PLState struct {
	Timestamp                   time.Time       `db:"PL_timestamp"`
	PoolsTVLStable              decimal.Decimal `db:"PL_pools_TVL_stable"`
	PoolsBorrowedStable         decimal.Decimal `db:"PL_pools_borrowed_stable"`
	PoolsYieldStable            decimal.Decimal `db:"PL_pools_yield_stable"`
	LSCountOpen                 int64           `db:"PL_LS_count_open"`
	LSCountClosed               int64           `db:"PL_LS_count_closed"`
	LSCountOpened               int64           `db:"PL_LS_count_opened"`
	InLSCltrAmntOpenedStable    decimal.Decimal `db:"PL_IN_LS_cltr_amnt_opened_stable"`
	LPCountOpen                 int64           `db:"PL_LP_count_open"`
	LPCountClosed               int64           `db:"PL_LP_count_closed"`
	LPCountOpened               int64           `db:"PL_LP_count_opened"`
	OutLSLoanAmntStable         decimal.Decimal `db:"PL_OUT_LS_loan_amnt_stable"`
	InLSRepAmntStable           decimal.Decimal `db:"PL_IN_LS_rep_amnt_stable"`
	InLSRepPrevMarginStable     decimal.Decimal `db:"PL_IN_LS_rep_prev_margin_stable"`
	InLSRepPrevInterestStable   decimal.Decimal `db:"PL_IN_LS_rep_prev_interest_stable"`
	InLSRepCurrentMarginStable  decimal.Decimal `db:"PL_IN_LS_rep_current_margin_stable"`
	InLSRepCurrentInterestStable decimal.Decimal `db:"PL_IN_LS_rep_current_interest_stable"`
	InLSRepPrincipalStable      decimal.Decimal `db:"PL_IN_LS_rep_principal_stable"`
	OutLSCltrAmntStable         decimal.Decimal `db:"PL_OUT_LS_cltr_amnt_stable"`
	OutLSAmntStable             decimal.Decimal `db:"PL_OUT_LS_amnt_stable"`
	NativeAmntStable            decimal.Decimal `db:"PL_native_amnt_stable"`
	NativeAmntNolus             decimal.Decimal `db:"PL_native_amnt_nolus"`
	InLPAmntStable              decimal.Decimal `db:"PL_IN_LP_amnt_stable"`
	OutLPAmntStable             decimal.Decimal `db:"PL_OUT_LP_amnt_stable"`
	TRProfitAmntStable          decimal.Decimal `db:"PL_TR_profit_amnt_stable"`
	TRProfitAmntNls             decimal.Decimal `db:"PL_TR_profit_amnt_nls"`
	TRTaxAmntStable             decimal.Decimal `db:"PL_TR_tax_amnt_stable"`
	TRTaxAmntNls                decimal.Decimal `db:"PL_TR_tax_amnt_nls"`
	OutTRRewardsAmntStable      decimal.Decimal `db:"PL_OUT_TR_rewards_amnt_stable"`
	OutTRRewardsAmntNls         decimal.Decimal `db:"PL_OUT_TR_rewards_amnt_nls"`
}

// LoanClosingType classifies why a loan closed.
type LoanClosingType string

const (
	LoanClosingRepay       LoanClosingType = "repay"
	LoanClosingLiquidation LoanClosingType = "liquidation"
	LoanClosingMarketClose LoanClosingType = "market-close"
	LoanClosingNone        LoanClosingType = "none"
)

// LSLoanClosing is the per-contract close record with its realized PnL.
// Rows written while gap-fill is running are stubs (Active=false) and are
// completed by the post-sync pass.
type LSLoanClosing struct {
	ContractID string          `db:"LS_contract_id"`
	AmntStable decimal.Decimal `db:"LS_amnt_stable"`
	Timestamp  time.Time       `db:"LS_timestamp"`
	Type       string          `db:"Type"`
	Amnt       decimal.Decimal `db:"LS_amnt"`
	PnL        decimal.Decimal `db:"LS_pnl"`
	Block      int64           `db:"Block"`
	Active     bool            `db:"Active"`
}

// LSLoanCollect is a residual on-contract balance snapshot taken when a
// loan closes by repayment or market close.
type LSLoanCollect struct {
	ContractID   string          `db:"LS_contract_id"`
	Symbol       string          `db:"LS_symbol"`
	Amount       decimal.Decimal `db:"LS_amount"`
	AmountStable decimal.Decimal `db:"LS_amount_stable"`
}

// ActionHistory records one completed tick of a named periodic action.
type ActionHistory struct {
	ActionType string    `db:"action_type"`
	CreatedAt  time.Time `db:"created_at"`
}

// Action names recorded in ActionHistory.
const (
	ActionAggregation = "aggregation"
	ActionMPAsset     = "mp_asset"
)

// PoolConfig is the slowly-changing pool configuration snapshot used to
// precompute LSOpening columns.
type PoolConfig struct {
	PoolID       string     `db:"pool_id"`
	PositionType string     `db:"position_type"`
	LpnSymbol    string     `db:"lpn_symbol"`
	LpnDecimals  int32      `db:"lpn_decimals"`
	IsActive     bool       `db:"is_active"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// ProtocolRegistry is the reconciled view of the admin contract's deployed
// protocols. Absent protocols stay as deprecated rows.
type ProtocolRegistry struct {
	ProtocolName    string     `db:"protocol_name"`
	Network         string     `db:"network"`
	Dex             *string    `db:"dex"`
	LeaserContract  string     `db:"leaser_contract"`
	LppContract     string     `db:"lpp_contract"`
	OracleContract  string     `db:"oracle_contract"`
	ProfitContract  string     `db:"profit_contract"`
	ReserveContract string     `db:"reserve_contract"`
	LpnSymbol       string     `db:"lpn_symbol"`
	PositionType    string     `db:"position_type"`
	IsActive        bool       `db:"is_active"`
	FirstSeenAt     time.Time  `db:"first_seen_at"`
	DeprecatedAt    *time.Time `db:"deprecated_at"`
}

// CurrencyRegistry mirrors SUPPORTED_CURRENCIES into the database.
type CurrencyRegistry struct {
	Ticker    string     `db:"ticker"`
	Decimals  int32      `db:"decimals"`
	BankDenom string     `db:"bank_denom"`
	IsActive  bool       `db:"is_active"`
	DeprecatedAt *time.Time `db:"deprecated_at"`
}

// CurrencyProtocol links a currency to a protocol it is quoted under.
type CurrencyProtocol struct {
	Ticker   string `db:"ticker"`
	Protocol string `db:"protocol"`
}
