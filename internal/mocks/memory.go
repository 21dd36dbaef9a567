package mocks

import (
	"context"
	"database/sql"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/store"
)

// Memory holds the rows of every table and hands out stores over them.
type Memory struct {
	mu      sync.Mutex
	users   map[int64]domain.User
	cars    map[int64]domain.Car
	rentals map[int64]domain.Rental
	returns map[int64]domain.RentalReturn
	nextID  int64
	errs    map[string]error

	// TxCount counts transactions started through TxRunner.
	TxCount int
	// Rollbacks counts transactions whose function returned an error.
	Rollbacks int
}

// NewMemory creates an empty in-memory database.
func NewMemory() *Memory {
	return &Memory{
		users:   make(map[int64]domain.User),
		cars:    make(map[int64]domain.Car),
		rentals: make(map[int64]domain.Rental),
		returns: make(map[int64]domain.RentalReturn),
		errs:    make(map[string]error),
	}
}

// Fail makes every later call to op return err. op has the form
// "CarStore.Insert". A nil err clears the failure.
func (m *Memory) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, op)
		return
	}
	m.errs[op] = err
}

func (m *Memory) failure(op string) error {
	return m.errs[op]
}

func (m *Memory) newID() int64 {
	m.nextID++
	return m.nextID
}

// CarCount returns the number of stored cars.
func (m *Memory) CarCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cars)
}

// RentalCount returns the number of stored rentals.
func (m *Memory) RentalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rentals)
}

// SeedUser stores u as is, assigning an id when it has none.
func (m *Memory) SeedUser(u domain.User) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = m.newID()
	} else if u.ID > m.nextID {
		m.nextID = u.ID
	}
	m.users[u.ID] = u
	return u.ID
}

type snapshot struct {
	users   map[int64]domain.User
	cars    map[int64]domain.Car
	rentals map[int64]domain.Rental
	returns map[int64]domain.RentalReturn
	nextID  int64
}

func (m *Memory) snapshot() snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot{
		users:   maps.Clone(m.users),
		cars:    maps.Clone(m.cars),
		rentals: maps.Clone(m.rentals),
		returns: maps.Clone(m.returns),
		nextID:  m.nextID,
	}
}

func (m *Memory) restore(s snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = s.users
	m.cars = s.cars
	m.rentals = s.rentals
	m.returns = s.returns
	m.nextID = s.nextID
}

// MemoryTxRunner implements store.TxRunner over Memory. The function runs
// with a nil *sql.Tx; the memory stores ignore it in WithTx.
type MemoryTxRunner struct {
	mem *Memory
	// BeginErr, when set, is returned before the function runs.
	BeginErr error
}

var _ store.TxRunner = (*MemoryTxRunner)(nil)

// TxRunner returns a transaction runner bound to m.
func (m *Memory) TxRunner() *MemoryTxRunner {
	return &MemoryTxRunner{mem: m}
}

// RunInTransaction implements store.TxRunner.
func (r *MemoryTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	if r.BeginErr != nil {
		return r.BeginErr
	}
	r.mem.mu.Lock()
	r.mem.TxCount++
	r.mem.mu.Unlock()

	snap := r.mem.snapshot()
	if err := fn(ctx, (*sql.Tx)(nil)); err != nil {
		r.mem.restore(snap)
		r.mem.mu.Lock()
		r.mem.Rollbacks++
		r.mem.mu.Unlock()
		return err
	}
	return nil
}

func sortedIDs[V any](rows map[int64]V) []int64 {
	return slices.Sorted(maps.Keys(rows))
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sameOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
