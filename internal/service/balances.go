package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// GroupBalances is everything derived from a group's records.
type GroupBalances struct {
	GroupID   string
	Balances  []ledger.Balance // sorted by PersonID, one per member
	Transfers []ledger.Transfer
	Summary   ledger.Summary
}

// Balances computes group balances and caches them until a write to the
// group invalidates them. One instance must be shared by every service that
// writes records.
type Balances struct {
	store   storage.Store
	cache   *cache.Cache
	metrics *metrics.Metrics

	// mu guards generations. A result is cached only if the group's
	// generation did not change while it was computed.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewBalances creates a balance calculator over store. Cached results expire
// after ttl; a ttl of zero keeps them until invalidated.
func NewBalances(store storage.Store, ttl time.Duration, m *metrics.Metrics) *Balances {
	if m == nil {
		m = metrics.New(nil)
	}
	expiration := ttl
	if expiration <= 0 {
		expiration = cache.NoExpiration
	}
	return &Balances{
		store:   store,
		cache:       cache.New(expiration, 10*time.Minute),
		metrics:     m,
		generations: make(map[string]uint64),
	}
}

// Get returns the balances, settlement plan and summary of groupID.
// A group whose balances do not net to zero yields an error wrapping
// ledger.ErrUnbalancedLedger. The result is a copy the caller may modify.
func (b *Balances) Get(ctx context.Context, groupID string) (*GroupBalances, error) {
	if cached, ok := b.cache.Get(groupID); ok {
		b.metrics.CacheHit()
		return cached.(*GroupBalances).clone(), nil
	}
	b.metrics.CacheMiss()

	generation := b.generation(groupID)

	start := time.Now()
	result, err := b.compute(ctx, groupID)
	transfers := 0
	if result != nil {
		transfers = len(result.Transfers)
	}
	b.metrics.ObserveComputation(start, transfers, err)
	if err != nil {
		if errors.Is(err, ledger.ErrUnbalancedLedger) {
			b.metrics.UnbalancedLedgers.Inc()
			slog.Error("Group ledger does not balance", "group_id", groupID, "error", err)
		}
		return nil, err
	}

	b.mu.Lock()
	if b.generations[groupID] == generation {
		b.cache.SetDefault(groupID, result)
	}
	b.mu.Unlock()
	return result.clone(), nil
}

// Invalidate drops the cached balances of groupID. A computation that read
// the group before the call will not be cached.
func (b *Balances) Invalidate(groupID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generations[groupID]++
	b.cache.Delete(groupID)
}

func (b *Balances) generation(groupID string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generations[groupID]
}

func (gb *GroupBalances) clone() *GroupBalances {
	c := *gb
	c.Balances = slices.Clone(gb.Balances)
	c.Transfers = slices.Clone(gb.Transfers)
	c.Summary.Members = slices.Clone(gb.Summary.Members)
	return &c
}

func (b *Balances) compute(ctx context.Context, groupID string) (*GroupBalances, error) {
	group, err := b.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var (
		expenses    []*models.Expense
		settlements []*models.Settlement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = b.store.ListExpensesByGroup(gctx, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		settlements, err = b.store.ListSettlementsByGroup(gctx, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load group records: %w", err)
	}

	expenseRecords := models.ExpensesToLedger(expenses)
	settlementRecords := models.SettlementsToLedger(settlements)

	balances := withMembers(ledger.ComputeBalances(expenseRecords, settlementRecords, groupID), group.Members)
	transfers, err := ledger.ComputeSettlementPlan(balances)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", groupID, err)
	}

	return &GroupBalances{
		GroupID:   groupID,
		Balances:  balances,
		Transfers: transfers,
		Summary:   ledger.Summarize(expenseRecords, settlementRecords, groupID),
	}, nil
}

// withMembers adds a zero balance for every member without activity.
func withMembers(balances []ledger.Balance, members []string) []ledger.Balance {
	seen := make(map[string]bool, len(balances))
	for _, b := range balances {
		seen[b.PersonID] = true
	}
	for _, m := range members {
		if !seen[m] {
			balances = append(balances, ledger.Balance{PersonID: m, Amount: decimal.Zero})
			seen[m] = true
		}
	}
	slices.SortFunc(balances, func(a, b ledger.Balance) int {
		return strings.Compare(a.PersonID, b.PersonID)
	})
	return balances
}
