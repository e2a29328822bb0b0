package cart

import (
	"sync"

	"github.com/bhaumikkgohil/teeku-masi-cloud-kitchen/internal/domain"
)

// Store is the single source of truth for every active cart in the process.
// Carts live in memory for the duration of a session: they are created on
// first Add and destroyed by Clear when a checkout completes.
type Store struct {
	mu       sync.RWMutex
	carts    map[int64][]domain.CartItem
	watchers map[int64][]chan struct{}
}

func NewStore() *Store {
	return &Store{
		carts:    make(map[int64][]domain.CartItem),
		watchers: make(map[int64][]chan struct{}),
	}
}

// Add appends the item with quantity 1, or bumps the quantity when the same
// item id is already in the cart. All other fields of an existing line are
// left untouched.
func (s *Store) Add(userID int64, item domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity++
			s.notifyLocked(userID)
			return
		}
	}

	item.Quantity = 1
	s.carts[userID] = append(items, item)
	s.notifyLocked(userID)
}

// Remove decrements the quantity of the given item; a line reaching zero is
// dropped entirely. Removing an absent item is a no-op.
func (s *Store) Remove(userID int64, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].ID != itemID {
			continue
		}

		items[i].Quantity--
		if items[i].Quantity <= 0 {
			items = append(items[:i], items[i+1:]...)
		}

		if len(items) == 0 {
			delete(s.carts, userID)
		} else {
			s.carts[userID] = items
		}

		s.notifyLocked(userID)
		return
	}
}

func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	s.notifyLocked(userID)
}

// Items returns a copy of the user's cart so callers cannot mutate the store
// behind its lock.
func (s *Store) Items(userID int64) []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.carts[userID]
	out := make([]domain.CartItem, len(items))
	copy(out, items)

	return out
}

// Subscribe returns a channel that receives a signal after every mutation of
// the user's cart, so multiple views observe the same state. The channel is
// never closed; slow receivers miss coalesced signals rather than block
// mutations.
func (s *Store) Subscribe(userID int64) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	s.watchers[userID] = append(s.watchers[userID], ch)

	return ch
}

func (s *Store) notifyLocked(userID int64) {
	for _, ch := range s.watchers[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
