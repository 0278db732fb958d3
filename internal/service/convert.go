package service

import (
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

const dateLayout = time.DateOnly

func toAPIGroup(group *models.Group) *api.Group {
	return &api.Group{
		ID:        group.ID,
		Name:      group.Name,
		Members:   group.Members,
		CreatedAt: group.CreatedAt,
	}
}

func toAPIExpense(expense *models.Expense) *api.Expense {
	splits := make([]api.Split, len(expense.Splits))
	for i, s := range expense.Splits {
		splits[i] = api.Split{PersonID: s.PersonID, Amount: s.Amount}
	}
	return &api.Expense{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		Description: expense.Description,
		Amount:      expense.Amount,
		PaidBy:      expense.PaidBy,
		Splits:      splits,
		SplitMode:   string(expense.SplitMode),
		Category:    expense.Category,
		Date:        formatDate(expense.Date),
		CreatedAt:   expense.CreatedAt,
		CreatedBy:   expense.CreatedBy,
	}
}

func toAPISettlement(settlement *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:           settlement.ID,
		GroupID:      settlement.GroupID,
		FromPersonID: settlement.FromPersonID,
		ToPersonID:   settlement.ToPersonID,
		Amount:       settlement.Amount,
		Date:         formatDate(settlement.Date),
		Note:         settlement.Note,
		CreatedAt:    settlement.CreatedAt,
		CreatedBy:    settlement.CreatedBy,
	}
}

func toAPIMember(member *models.Member) *api.Member {
	return &api.Member{
		ID:          member.ID,
		Email:       member.Email,
		DisplayName: member.DisplayName,
		CreatedAt:   member.CreatedAt,
	}
}

func toAPIBalances(gb *GroupBalances) *api.GetGroupBalancesResponse {
	resp := &api.GetGroupBalancesResponse{
		GroupID:         gb.GroupID,
		Balances:        make([]*api.Balance, len(gb.Balances)),
		Transfers:       make([]*api.Transfer, len(gb.Transfers)),
		Members:         make([]*api.MemberTotals, len(gb.Summary.Members)),
		TotalSpent:      gb.Summary.TotalSpent,
		ExpenseCount:    gb.Summary.ExpenseCount,
		SettlementCount: gb.Summary.SettlementCount,
	}
	for i, b := range gb.Balances {
		resp.Balances[i] = &api.Balance{PersonID: b.PersonID, Amount: b.Amount, Status: b.Status().String()}
	}
	for i, t := range gb.Transfers {
		resp.Transfers[i] = &api.Transfer{FromPersonID: t.FromPersonID, ToPersonID: t.ToPersonID, Amount: t.Amount}
	}
	for i, m := range gb.Summary.Members {
		resp.Members[i] = &api.MemberTotals{PersonID: m.PersonID, Paid: m.Paid, Owed: m.Owed, Net: m.Net()}
	}
	return resp
}

func toCalculatorItems(items []*api.Item) []calculator.Item {
	out := make([]calculator.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, calculator.Item{
			Description: item.Description,
			Amount:      ledger.Quantize(item.Amount),
			AssignedTo:  item.AssignedTo,
		})
	}
	return out
}

func toAPISplits(splits []ledger.Split) []*api.Split {
	out := make([]*api.Split, len(splits))
	for i, s := range splits {
		out[i] = &api.Split{PersonID: s.PersonID, Amount: s.Amount}
	}
	return out
}

// parseDate reads a YYYY-MM-DD date; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
