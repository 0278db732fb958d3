package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and keeps member order", func(t *testing.T) {
		group := &models.Group{Name: "Roommates", Members: []string{"carol", "alice", "bob"}}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Roommates" {
			t.Errorf("Name mismatch: got %s, want Roommates", got.Name)
		}
		want := []string{"carol", "alice", "bob"}
		if len(got.Members) != len(want) {
			t.Fatalf("Members mismatch: got %v, want %v", got.Members, want)
		}
		for i := range want {
			if got.Members[i] != want[i] {
				t.Errorf("Member %d: got %s, want %s", i, got.Members[i], want[i])
			}
		}
	})

	t.Run("GetGroup returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AddGroupMembers appends only new members", func(t *testing.T) {
		group := &models.Group{Name: "Trip", Members: []string{"alice", "bob"}}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.AddGroupMembers(ctx, group.ID, []string{"bob", "dave", "erin"}); err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		want := []string{"alice", "bob", "dave", "erin"}
		if len(got.Members) != len(want) {
			t.Fatalf("Members mismatch: got %v, want %v", got.Members, want)
		}
		for i := range want {
			if got.Members[i] != want[i] {
				t.Errorf("Member %d: got %s, want %s", i, got.Members[i], want[i])
			}
		}
	})

	t.Run("UpdateGroup replaces name and members", func(t *testing.T) {
		group := &models.Group{Name: "Old", Members: []string{"alice"}}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		group.Name = "New"
		group.Members = []string{"bob", "carol"}
		if err := store.UpdateGroup(ctx, group); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "New" || len(got.Members) != 2 || got.Members[0] != "bob" {
			t.Errorf("Unexpected group after update: %+v", got)
		}

		missing := &models.Group{ID: "nonexistent-id", Name: "x"}
		if err := store.UpdateGroup(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListGroups returns every group", func(t *testing.T) {
		groups, err := store.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(groups) != 3 {
			t.Errorf("Expected 3 groups, got %d", len(groups))
		}
	})
}

func TestLedgerRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Dinner Club", Members: []string{"alice", "bob", "carol"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("expense round trip keeps cents and split order", func(t *testing.T) {
		expense := &models.Expense{
			GroupID:     group.ID,
			Description: "Dinner",
			Amount:      decimal.RequireFromString("100.00"),
			PaidBy:      "alice",
			Splits: []models.ExpenseSplit{
				{PersonID: "carol", Amount: decimal.RequireFromString("33.34")},
				{PersonID: "alice", Amount: decimal.RequireFromString("33.33")},
				{PersonID: "bob", Amount: decimal.RequireFromString("33.33")},
			},
			SplitMode: models.SplitEqual,
			Category:  "Food & Dining",
			Date:      day("2024-03-01"),
			CreatedBy: "alice",
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("Expected expense ID to be generated")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(expense.Amount) {
			t.Errorf("Amount mismatch: got %s, want %s", got.Amount, expense.Amount)
		}
		if got.SplitMode != models.SplitEqual {
			t.Errorf("SplitMode mismatch: got %s", got.SplitMode)
		}
		if !got.Date.Equal(day("2024-03-01")) {
			t.Errorf("Date mismatch: got %s", got.Date)
		}
		if len(got.Splits) != 3 {
			t.Fatalf("Expected 3 splits, got %d", len(got.Splits))
		}
		for i, split := range expense.Splits {
			if got.Splits[i].PersonID != split.PersonID || !got.Splits[i].Amount.Equal(split.Amount) {
				t.Errorf("Split %d: got %+v, want %+v", i, got.Splits[i], split)
			}
		}
	})

	t.Run("ListExpensesByGroup is newest first", func(t *testing.T) {
		later := &models.Expense{
			GroupID:     group.ID,
			Description: "Groceries",
			Amount:      decimal.RequireFromString("12.50"),
			PaidBy:      "bob",
			Splits:      []models.ExpenseSplit{{PersonID: "bob", Amount: decimal.RequireFromString("12.50")}},
			Category:    "Shopping",
			Date:        day("2024-03-05"),
		}
		if err := store.CreateExpense(ctx, later); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("Expected 2 expenses, got %d", len(expenses))
		}
		if expenses[0].Description != "Groceries" {
			t.Errorf("Expected newest expense first, got %s", expenses[0].Description)
		}
		if len(expenses[1].Splits) != 3 {
			t.Errorf("Expected splits to be loaded, got %d", len(expenses[1].Splits))
		}
	})

	t.Run("settlement round trip", func(t *testing.T) {
		settlement := &models.Settlement{
			GroupID:      group.ID,
			FromPersonID: "bob",
			ToPersonID:   "alice",
			Amount:       decimal.RequireFromString("10"),
			Date:         day("2024-03-02"),
			Note:         "Venmo",
		}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		got, err := store.GetSettlement(ctx, settlement.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if got.FromPersonID != "bob" || got.ToPersonID != "alice" {
			t.Errorf("Direction mismatch: got %s -> %s", got.FromPersonID, got.ToPersonID)
		}
		if !got.Amount.Equal(decimal.RequireFromString("10.00")) {
			t.Errorf("Amount mismatch: got %s", got.Amount)
		}
		if got.Note != "Venmo" {
			t.Errorf("Note mismatch: got %q", got.Note)
		}

		settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(settlements) != 1 {
			t.Errorf("Expected 1 settlement, got %d", len(settlements))
		}
	})

	t.Run("delete returns ErrNotFound for unknown records", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteExpense: expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteSettlement(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteSettlement: expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetExpense(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetExpense: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteGroup cascades to records", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected expenses to be deleted, got %d", len(expenses))
		}
		settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(settlements) != 0 {
			t.Errorf("Expected settlements to be deleted, got %d", len(settlements))
		}
	})
}

func TestMembers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	member := models.NewMember("alice@example.com", "Alice", "hash")
	if err := store.CreateMember(ctx, member); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	byEmail, err := store.GetMemberByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetMemberByEmail failed: %v", err)
	}
	if byEmail.ID != member.ID {
		t.Errorf("ID mismatch: got %s, want %s", byEmail.ID, member.ID)
	}

	byID, err := store.GetMemberByID(ctx, member.ID)
	if err != nil {
		t.Fatalf("GetMemberByID failed: %v", err)
	}
	if byID.DisplayName != "Alice" {
		t.Errorf("DisplayName mismatch: got %s", byID.DisplayName)
	}

	if _, err := store.GetMemberByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	dup := models.NewMember("alice@example.com", "Other Alice", "hash")
	if err := store.CreateMember(ctx, dup); err == nil {
		t.Error("Expected duplicate email to fail")
	}
}
