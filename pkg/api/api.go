// Package api defines the request and response messages of the splitledger
// RPC services. Messages travel as JSON; amounts are decimal strings and dates
// are YYYY-MM-DD.
package api

import "github.com/shopspring/decimal"

// Group is a named set of members sharing expenses.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

// Split is one member's share of an expense.
type Split struct {
	PersonID string          `json:"person_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// Item is a line of an itemized bill.
type Item struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	AssignedTo  []string        `json:"assigned_to"`
}

// Expense is a recorded shared cost.
type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	Splits      []Split         `json:"splits"`
	SplitMode   string          `json:"split_mode"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	CreatedAt   int64           `json:"created_at"`
	CreatedBy   string          `json:"created_by,omitempty"`
}

// Settlement is a recorded repayment between two members.
type Settlement struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"group_id"`
	FromPersonID string          `json:"from_person_id"`
	ToPersonID   string          `json:"to_person_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    int64           `json:"created_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
}

// Balance is a member's net position. Positive means they are owed money.
type Balance struct {
	PersonID string          `json:"person_id"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
}

// Transfer is a suggested payment from a debtor to a creditor.
type Transfer struct {
	FromPersonID string          `json:"from_person_id"`
	ToPersonID   string          `json:"to_person_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// MemberTotals splits a member's balance into paid and owed.
type MemberTotals struct {
	PersonID string          `json:"person_id"`
	Paid     decimal.Decimal `json:"paid"`
	Owed     decimal.Decimal `json:"owed"`
	Net      decimal.Decimal `json:"net"`
}

// Member is a registered account, without credentials.
type Member struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
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

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID string   `json:"group_id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	GroupID         string          `json:"group_id"`
	Balances        []*Balance      `json:"balances"`
	Transfers       []*Transfer     `json:"transfers"`
	Members         []*MemberTotals `json:"members"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	ExpenseCount    int             `json:"expense_count"`
	SettlementCount int             `json:"settlement_count"`
}

// AddExpenseRequest records an expense. SplitMode selects which fields are
// read: "equal" uses Participants, "custom" uses Shares and "itemized" uses
// Items with Subtotal.
type AddExpenseRequest struct {
	GroupID      string                     `json:"group_id"`
	Description  string                     `json:"description"`
	Amount       decimal.Decimal            `json:"amount"`
	PaidBy       string                     `json:"paid_by"`
	SplitMode    string                     `json:"split_mode"`
	Participants []string                   `json:"participants,omitempty"`
	Shares       map[string]decimal.Decimal `json:"shares,omitempty"`
	Items        []*Item                    `json:"items,omitempty"`
	Subtotal     decimal.Decimal            `json:"subtotal"`
	Category     string                     `json:"category,omitempty"`
	Date         string                     `json:"date,omitempty"`
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

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

// PreviewSplitRequest computes splits without recording anything.
type PreviewSplitRequest struct {
	Amount       decimal.Decimal            `json:"amount"`
	SplitMode    string                     `json:"split_mode"`
	Participants []string                   `json:"participants,omitempty"`
	Shares       map[string]decimal.Decimal `json:"shares,omitempty"`
	Items        []*Item                    `json:"items,omitempty"`
	Subtotal     decimal.Decimal            `json:"subtotal"`
}

type PreviewSplitResponse struct {
	Splits []*Split `json:"splits"`
}

// RecordSettlementRequest records a payment. When FromPersonID, ToPersonID
// and Amount are all empty, the first suggested transfer involving the
// caller is used.
type RecordSettlementRequest struct {
	GroupID      string          `json:"group_id"`
	FromPersonID string          `json:"from_person_id,omitempty"`
	ToPersonID   string          `json:"to_person_id,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date,omitempty"`
	Note         string          `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	Member *Member `json:"member"`
	Token  string  `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Member *Member `json:"member"`
	Token  string  `json:"token"`
}

type GetCurrentMemberRequest struct{}

type GetCurrentMemberResponse struct {
	Member *Member `json:"member"`
}
