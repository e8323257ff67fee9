// Package memory holds an in-process store adapter, the default backend
// and the test double for the sqlite one.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"finflio/internal/core"
	"finflio/internal/store"
)

type Store struct {
	mu    sync.Mutex
	txns  []core.Transaction
	users map[string]core.User // keyed by email
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.UserStore        = (*Store)(nil)
)

func New() *Store {
	return &Store{users: make(map[string]core.User)}
}

func (s *Store) InsertOne(_ context.Context, txn core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	s.txns = append(s.txns, txn)
	return txn, nil
}

func (s *Store) InsertMany(_ context.Context, txns []core.Transaction) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Single acknowledged unit: ids are assigned before anything is stored.
	batch := make([]core.Transaction, len(txns))
	for i, txn := range txns {
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		batch[i] = txn
	}
	s.txns = append(s.txns, batch...)
	return batch, nil
}

func (s *Store) FindByID(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txn := range s.txns {
		if txn.ID == id {
			return txn, nil
		}
	}
	return core.Transaction{}, core.ErrTransactionNotFound
}

func (s *Store) UpdateByID(_ context.Context, txn core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == txn.ID {
			s.txns[i] = txn
			return nil
		}
	}
	return core.ErrTransactionNotFound
}

func (s *Store) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			return nil
		}
	}
	return core.ErrTransactionNotFound
}

func (s *Store) Count(_ context.Context, p store.Predicate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, txn := range s.txns {
		if p.Matches(txn) {
			n++
		}
	}
	return n, nil
}

func (s *Store) SumAmount(_ context.Context, p store.Predicate) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, txn := range s.txns {
		if p.Matches(txn) {
			sum += txn.Amount
		}
	}
	return sum, nil
}

func (s *Store) ListPage(_ context.Context, p store.Predicate, order store.Sort, skip, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	matched := make([]core.Transaction, 0)
	for _, txn := range s.txns {
		if p.Matches(txn) {
			matched = append(matched, txn)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if order == store.SortTimestampDesc {
			return matched[i].Timestamp > matched[j].Timestamp
		}
		return matched[i].Timestamp < matched[j].Timestamp
	})

	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit >= 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Store) BucketedAggregate(_ context.Context, p store.Predicate, b store.Bucket) ([]core.StatsBucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey := make(map[string]*core.StatsBucket)
	for _, txn := range s.txns {
		if !p.Matches(txn) {
			continue
		}
		key := b.Key(txn.Timestamp)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &core.StatsBucket{Date: key}
			byKey[key] = bucket
		}
		switch txn.Type {
		case core.Income:
			bucket.TotalDailyIncome += txn.Amount
		case core.Expense:
			bucket.TotalDailyExpense += txn.Amount
		}
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys) // deterministic output regardless of map order
	out := make([]core.StatsBucket, 0, len(keys))
	for _, key := range keys {
		out = append(out, *byKey[key])
	}
	return out, nil
}

func (s *Store) InsertUser(_ context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.Email] = u
	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return core.User{}, core.ErrUserNotFound
	}
	return u, nil
}
