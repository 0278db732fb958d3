package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
)

// File is a ledger read from a TOML document:
//
//	group = "trip"
//
//	[[expense]]
//	description = "Dinner"
//	amount = 30.00
//	paid_by = "alice"
//	participants = ["alice", "bob", "carol"]   # equal split
//
//	[[expense]]
//	description = "Hotel"
//	amount = 100
//	paid_by = "bob"
//	  [[expense.split]]
//	  person = "alice"
//	  amount = 60
//	  [[expense.split]]
//	  person = "bob"
//	  amount = 40
//
//	[[settlement]]
//	from = "bob"
//	to = "alice"
//	amount = 10
type File struct {
	GroupID     string
	Expenses    []ledger.ExpenseRecord
	Settlements []ledger.SettlementRecord
}

// ReadFile parses a ledger document. Records without an explicit group
// belong to the document's group.
func ReadFile(r io.Reader) (*File, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse ledger file: %w", err)
	}

	f := &File{GroupID: stringOr(tree, "group", "default")}

	for i, t := range tables(tree, "expense") {
		e, err := f.readExpense(t, i)
		if err != nil {
			return nil, err
		}
		f.Expenses = append(f.Expenses, e)
	}

	for i, t := range tables(tree, "settlement") {
		s, err := f.readSettlement(t, i)
		if err != nil {
			return nil, err
		}
		f.Settlements = append(f.Settlements, s)
	}

	return f, nil
}

func (f *File) readExpense(t *toml.Tree, i int) (ledger.ExpenseRecord, error) {
	e := ledger.ExpenseRecord{
		ID:          stringOr(t, "id", fmt.Sprintf("expense-%d", i+1)),
		GroupID:     stringOr(t, "group", f.GroupID),
		Description: stringOr(t, "description", ""),
		PaidBy:      stringOr(t, "paid_by", ""),
		Category:    stringOr(t, "category", calculator.DefaultCategory),
	}
	where := fmt.Sprintf("expense %s (line %d)", e.ID, t.Position().Line)

	var err error
	if e.Amount, err = amount(t, "amount"); err != nil {
		return e, fmt.Errorf("%s: %w", where, err)
	}
	if e.Date, err = date(t, "date"); err != nil {
		return e, fmt.Errorf("%s: %w", where, err)
	}

	if participants := stringList(t, "participants"); len(participants) > 0 {
		if e.Splits, err = calculator.EqualSplit(e.Amount, participants); err != nil {
			return e, fmt.Errorf("%s: %w", where, err)
		}
		return e, nil
	}

	for _, st := range tables(t, "split") {
		split := ledger.Split{PersonID: stringOr(st, "person", "")}
		if split.Amount, err = amount(st, "amount"); err != nil {
			return e, fmt.Errorf("%s: split for %q: %w", where, split.PersonID, err)
		}
		e.Splits = append(e.Splits, split)
	}
	return e, nil
}

func (f *File) readSettlement(t *toml.Tree, i int) (ledger.SettlementRecord, error) {
	s := ledger.SettlementRecord{
		ID:           stringOr(t, "id", fmt.Sprintf("settlement-%d", i+1)),
		GroupID:      stringOr(t, "group", f.GroupID),
		FromPersonID: stringOr(t, "from", ""),
		ToPersonID:   stringOr(t, "to", ""),
	}
	where := fmt.Sprintf("settlement %s (line %d)", s.ID, t.Position().Line)

	var err error
	if s.Amount, err = amount(t, "amount"); err != nil {
		return s, fmt.Errorf("%s: %w", where, err)
	}
	if s.Date, err = date(t, "date"); err != nil {
		return s, fmt.Errorf("%s: %w", where, err)
	}
	return s, nil
}

func tables(t *toml.Tree, key string) []*toml.Tree {
	switch v := t.Get(key).(type) {
	case []*toml.Tree:
		return v
	case *toml.Tree:
		return []*toml.Tree{v}
	case []interface{}:
		var out []*toml.Tree
		for _, item := range v {
			if tt, ok := item.(*toml.Tree); ok {
				out = append(out, tt)
			}
		}
		return out
	}
	return nil
}

func stringOr(t *toml.Tree, key, fallback string) string {
	if s, ok := t.Get(key).(string); ok && s != "" {
		return s
	}
	return fallback
}

func stringList(t *toml.Tree, key string) []string {
	values, ok := t.Get(key).([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// amount accepts TOML integers, floats and decimal strings.
func amount(t *toml.Tree, key string) (decimal.Decimal, error) {
	switch v := t.Get(key).(type) {
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return ledger.QuantizeFloat(v), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s %q", key, v)
		}
		return ledger.Quantize(d), nil
	case nil:
		return decimal.Zero, fmt.Errorf("missing %s", key)
	default:
		return decimal.Zero, fmt.Errorf("invalid %s %v", key, v)
	}
}

// date accepts TOML local dates, date-times and YYYY-MM-DD strings.
// A missing date is the zero time.
func date(t *toml.Tree, key string) (time.Time, error) {
	switch v := t.Get(key).(type) {
	case nil:
		return time.Time{}, nil
	case toml.LocalDate:
		return v.In(time.UTC), nil
	case toml.LocalDateTime:
		return v.In(time.UTC), nil
	case time.Time:
		return v, nil
	case string:
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", key, v)
		}
		return d, nil
	default:
		return time.Time{}, fmt.Errorf("invalid %s %v", key, v)
	}
}
