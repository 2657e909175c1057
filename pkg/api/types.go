package api

import "github.com/shopspring/decimal"

// UserRef names a member in plan output.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlanBalance is one member's outstanding balance.
type PlanBalance struct {
	User             UserRef         `json:"user"`
	BalanceReference decimal.Decimal `json:"balance_reference"`
	Balance          decimal.Decimal `json:"balance"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"` // "owed" or "owes"
}

// PlanSide is one end of a suggested transfer, in that member's currency.
type PlanSide struct {
	User     UserRef         `json:"user"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// PlanTransfer is one suggested payment.
type PlanTransfer struct {
	From            PlanSide        `json:"from"`
	To              PlanSide        `json:"to"`
	AmountReference decimal.Decimal `json:"amount_reference"`
	Description     string          `json:"description"`
}

// SettlementPlan says who should pay whom to settle a group.
type SettlementPlan struct {
	GroupID              string                  `json:"group_id"`
	GroupName            string                  `json:"group_name"`
	TotalExpenses        int                     `json:"total_expenses"`
	TotalAmountReference decimal.Decimal         `json:"total_amount_reference"`
	ReferenceCurrency    string                  `json:"reference_currency"`
	Balances             map[string]*PlanBalance `json:"balances"`
	Settlements          []*PlanTransfer         `json:"settlements"`
	TransactionCount     int                     `json:"transaction_count"`
}

// Settlement is a recorded payment and its lifecycle state.
type Settlement struct {
	ID              string          `json:"id"`
	GroupID         string          `json:"group_id"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	AmountReference decimal.Decimal `json:"amount_reference"`
	Status          string          `json:"status"`
	VerifiedBy      string          `json:"verified_by,omitempty"`
	VerifiedAt      int64           `json:"verified_at,omitempty"`
	CompletedAt     int64           `json:"completed_at,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       int64           `json:"created_at"`
}

type GetSettlementPlanRequest struct {
	GroupID string `json:"group_id"`
}

type GetSettlementPlanResponse struct {
	Plan *SettlementPlan `json:"plan"`
}

type CreateSettlementRequest struct {
	GroupID  string          `json:"group_id"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"` // empty means the reference currency
	Notes    string          `json:"notes,omitempty"`
}

type CreateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type GetSettlementRequest struct {
	GroupID      string `json:"group_id"`
	SettlementID string `json:"settlement_id"`
}

type GetSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type VerifySettlementRequest struct {
	GroupID      string `json:"group_id"`
	SettlementID string `json:"settlement_id"`
	Notes        string `json:"notes,omitempty"`
}

type VerifySettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type CompleteSettlementRequest struct {
	GroupID      string `json:"group_id"`
	SettlementID string `json:"settlement_id"`
}

type CompleteSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

// Currency is one entry of the rate table.
type Currency struct {
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Symbol          string          `json:"symbol"`
	RateToReference decimal.Decimal `json:"rate_to_reference"`
}

type ListCurrenciesRequest struct{}

type ListCurrenciesResponse struct {
	ReferenceCurrency string      `json:"reference_currency"`
	Currencies        []*Currency `json:"currencies"`
}

type GetCurrencyRequest struct {
	Code string `json:"code"`
}

type GetCurrencyResponse struct {
	Currency *Currency `json:"currency"`
}

type ConvertRequest struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from"`
	To     string          `json:"to"`
}

type ConvertResponse struct {
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	AmountReference decimal.Decimal `json:"amount_reference"`
}

// Member is a member profile.
type Member struct {
	ID                string `json:"id"`
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
	PreferredCurrency string `json:"preferred_currency,omitempty"`
}

// Group is a roster of members, in join order.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creator_id"`
	Members   []*Member `json:"members"`
	CreatedAt int64     `json:"created_at"`
}

// SplitInput is one member's share of a new expense. Value is an amount for
// custom splits, a percentage for percentage splits and ignored for equal
// splits, where listing members restricts the split to them.
type SplitInput struct {
	MemberID string          `json:"member_id"`
	Value    decimal.Decimal `json:"value"`
}

// Split is one member's owed amount, in the expense currency.
type Split struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// Expense is an amount paid by one member.
type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	PayerID     string          `json:"payer_id"`
	SplitType   string          `json:"split_type"`
	Splits      []*Split        `json:"splits"`
	CreatedAt   int64           `json:"created_at"`
}

type CreateGroupRequest struct {
	Name    string    `json:"name"`
	Members []*Member `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type AddMembersRequest struct {
	GroupID string    `json:"group_id"`
	Members []*Member `json:"members"`
}

type AddMembersResponse struct {
	Group *Group `json:"group"`
}

type AddExpenseRequest struct {
	GroupID     string          `json:"group_id"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	PayerID     string          `json:"payer_id"` // defaults to the caller
	SplitType   string          `json:"split_type"`
	Splits      []*SplitInput   `json:"splits,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type SetPreferredCurrencyRequest struct {
	Currency string `json:"currency"`
}

type SetPreferredCurrencyResponse struct {
	Member *Member `json:"member"`
}
