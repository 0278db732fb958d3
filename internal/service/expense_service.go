package service

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService. It records expenses
// and settlements, the two kinds of entries balances are computed from.
type ExpenseService struct {
	store     storage.Store
	balances  *Balances
	publisher events.Publisher
}

// NewExpenseService creates an ExpenseService. A nil publisher drops events.
func NewExpenseService(store storage.Store, balances *Balances, publisher events.Publisher) *ExpenseService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ExpenseService{store: store, balances: balances, publisher: publisher}
}

// AddExpense computes the splits of a new expense, validates and stores it.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	memberID := middleware.GetMemberID(ctx)
	msg := req.Msg
	slog.Info("AddExpense request received",
		"group_id", msg.GroupID,
		"member_id", memberID,
		"amount", msg.Amount.String(),
		"split_mode", msg.SplitMode,
	)

	group, err := s.memberGroup(ctx, memberID, msg.GroupID)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(msg.Description)
	if description == "" {
		return nil, invalidArgument("description required")
	}

	category := msg.Category
	if category == "" {
		category = calculator.DefaultCategory
	}
	if !calculator.IsKnownCategory(category) {
		return nil, invalidArgument("unknown category %q", category)
	}

	date, err := parseDate(msg.Date)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}

	paidBy := msg.PaidBy
	if paidBy == "" {
		paidBy = memberID
	}

	amount := ledger.Quantize(msg.Amount)
	mode, splits, err := computeSplits(msg.SplitMode, amount, msg.Participants, msg.Shares, msg.Items, msg.Subtotal)
	if err != nil {
		slog.Warn("AddExpense split failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: description,
		Amount:      amount,
		PaidBy:      paidBy,
		Splits:      models.SplitsFromLedger(splits),
		SplitMode:   mode,
		Category:    category,
		Date:        date,
		CreatedBy:   memberID,
	}

	if err := ledger.ValidateExpense(expense.ToLedger()); err != nil {
		slog.Warn("AddExpense validation failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	people := make([]string, 0, len(splits)+1)
	people = append(people, paidBy)
	for _, split := range splits {
		people = append(people, split.PersonID)
	}
	s.autoAddToGroup(ctx, group, people)
	s.balances.Invalidate(group.ID)
	s.publish(ctx, events.New(events.ExpenseRecorded, group.ID, expense.ID, memberID, expense.Amount))

	slog.Info("Expense recorded", "expense_id", expense.ID, "group_id", group.ID)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns the expenses of a group, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	memberID := middleware.GetMemberID(ctx)
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID, "member_id", memberID)

	group, err := s.memberGroup(ctx, memberID, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, expense := range expenses {
		out[i] = toAPIExpense(expense)
	}

	slog.Info("ListExpenses successful", "group_id", group.ID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense from its group.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	memberID := middleware.GetMemberID(ctx)
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID, "member_id", memberID)

	if memberID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("DeleteExpense failed - could not get expense", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	if _, err := s.memberGroup(ctx, memberID, expense.GroupID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.balances.Invalidate(expense.GroupID)
	s.publish(ctx, events.New(events.ExpenseDeleted, expense.GroupID, expense.ID, memberID, expense.Amount))

	slog.Info("Expense deleted", "expense_id", expense.ID, "group_id", expense.GroupID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// PreviewSplit computes splits without recording anything.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	msg := req.Msg
	slog.Debug("PreviewSplit request received", "amount", msg.Amount.String(), "split_mode", msg.SplitMode)

	_, splits, err := computeSplits(msg.SplitMode, ledger.Quantize(msg.Amount), msg.Participants, msg.Shares, msg.Items, msg.Subtotal)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PreviewSplitResponse{Splits: toAPISplits(splits)}), nil
}

// RecordSettlement records a payment between two group members.
// With no parties and no amount it records the caller's first suggested
// transfer.
func (s *ExpenseService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	memberID := middleware.GetMemberID(ctx)
	msg := req.Msg
	slog.Info("RecordSettlement request received",
		"group_id", msg.GroupID,
		"member_id", memberID,
		"from", msg.FromPersonID,
		"to", msg.ToPersonID,
		"amount", msg.Amount.String(),
	)

	group, err := s.memberGroup(ctx, memberID, msg.GroupID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate(msg.Date)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}

	from, to, amount := msg.FromPersonID, msg.ToPersonID, ledger.Quantize(msg.Amount)
	if from == "" && to == "" && amount.IsZero() {
		suggested, err := s.suggestedTransfer(ctx, group.ID, memberID)
		if err != nil {
			return nil, err
		}
		from, to, amount = suggested.FromPersonID, suggested.ToPersonID, suggested.Amount
	}
	if from == "" {
		from = memberID
	}

	settlement := &models.Settlement{
		GroupID:      group.ID,
		FromPersonID: from,
		ToPersonID:   to,
		Amount:       amount,
		Date:         date,
		CreatedBy:    memberID,
		Note:         strings.TrimSpace(msg.Note),
	}

	if err := ledger.ValidateSettlement(settlement.ToLedger()); err != nil {
		return nil, toConnectError(err)
	}
	for _, person := range []string{from, to} {
		if !group.HasMember(person) {
			return nil, invalidArgument("%s is not a member of group %s", person, group.ID)
		}
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.balances.Invalidate(group.ID)
	s.publish(ctx, events.New(events.SettlementRecorded, group.ID, settlement.ID, memberID, settlement.Amount))

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", group.ID,
		"from", from,
		"to", to,
		"amount", amount.StringFixed(ledger.Places),
	)

	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlements returns the settlements of a group, newest first.
func (s *ExpenseService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	memberID := middleware.GetMemberID(ctx)
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID, "member_id", memberID)

	group, err := s.memberGroup(ctx, memberID, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, settlement := range settlements {
		out[i] = toAPISettlement(settlement)
	}

	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement removes a settlement from its group.
func (s *ExpenseService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	memberID := middleware.GetMemberID(ctx)
	slog.Info("DeleteSettlement request received", "settlement_id", req.Msg.SettlementID, "member_id", memberID)

	if memberID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	if req.Msg.SettlementID == "" {
		return nil, invalidArgument("settlement_id required")
	}

	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if _, err := s.memberGroup(ctx, memberID, settlement.GroupID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteSettlement(ctx, settlement.ID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", settlement.ID, "error", err)
		return nil, toConnectError(err)
	}
	s.balances.Invalidate(settlement.GroupID)
	s.publish(ctx, events.New(events.SettlementDeleted, settlement.GroupID, settlement.ID, memberID, settlement.Amount))

	slog.Info("Settlement deleted", "settlement_id", settlement.ID, "group_id", settlement.GroupID)

	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}

// memberGroup loads groupID and checks that memberID belongs to it.
func (s *ExpenseService) memberGroup(ctx context.Context, memberID, groupID string) (*models.Group, error) {
	if memberID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("Failed to get group", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	if !group.HasMember(memberID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return group, nil
}

// suggestedTransfer returns the first planned transfer that involves memberID.
func (s *ExpenseService) suggestedTransfer(ctx context.Context, groupID, memberID string) (ledger.Transfer, error) {
	result, err := s.balances.Get(ctx, groupID)
	if err != nil {
		return ledger.Transfer{}, toConnectError(err)
	}
	for _, t := range result.Transfers {
		if t.FromPersonID == memberID || t.ToPersonID == memberID {
			return t, nil
		}
	}
	return ledger.Transfer{}, connect.NewError(connect.CodeFailedPrecondition,
		fmt.Errorf("no suggested transfer for %s in group %s", memberID, groupID))
}

// autoAddToGroup adds expense participants who are not group members yet.
func (s *ExpenseService) autoAddToGroup(ctx context.Context, group *models.Group, people []string) {
	var newMembers []string
	for _, p := range uniqueMembers(people) {
		if !group.HasMember(p) {
			newMembers = append(newMembers, p)
		}
	}
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, group.ID, newMembers); err != nil {
		slog.Error("autoAddToGroup: failed to add members", "group_id", group.ID, "error", err)
		return
	}
	slog.Info("Auto-added participants to group", "group_id", group.ID, "new_members", newMembers)
}

// publish sends event without failing the request; the record is already stored.
func (s *ExpenseService) publish(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish ledger event",
			"type", event.Type,
			"group_id", event.GroupID,
			"record_id", event.RecordID,
			"error", err,
		)
	}
}

// computeSplits turns the split inputs of an expense into ledger splits.
// Without explicit participants, custom mode uses the share holders and
// itemized mode the people items are assigned to.
func computeSplits(mode string, amount decimal.Decimal, participants []string, shares map[string]decimal.Decimal, items []*api.Item, subtotal decimal.Decimal) (models.SplitMode, []ledger.Split, error) {
	participants = uniqueMembers(participants)

	switch models.SplitMode(mode) {
	case "", models.SplitEqual:
		splits, err := calculator.EqualSplit(amount, participants)
		return models.SplitEqual, splits, err

	case models.SplitCustom:
		if len(participants) == 0 {
			participants = slices.Sorted(maps.Keys(shares))
		}
		splits, err := calculator.CustomSplit(amount, participants, shares)
		return models.SplitCustom, splits, err

	case models.SplitItemized:
		calcItems := toCalculatorItems(items)
		if len(participants) == 0 {
			for _, item := range calcItems {
				participants = append(participants, item.AssignedTo...)
			}
			participants = uniqueMembers(participants)
		}
		if subtotal.IsZero() {
			subtotal = amount
		}
		splits, err := calculator.ItemizedSplit(calcItems, amount, ledger.Quantize(subtotal), participants)
		return models.SplitItemized, splits, err

	default:
		return "", nil, invalidArgument("unknown split mode %q", mode)
	}
}
