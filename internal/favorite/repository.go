package favorite

import (
	"errors"
	"sync"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrAlreadyFavorite = errors.New("item already in favorites")
	ErrNotFavorite     = errors.New("item not in favorites")
)

// Repository tracks which menu items a user has favorited. Add and Remove
// return the user's full favorite id list so the client can sync its state
// in one round trip.
type Repository interface {
	Add(userID, menuItemID int) ([]int, error)
	Remove(userID, menuItemID int) ([]int, error)
	List(userID int) ([]Item, error)
}

// InMemoryRepository is used for tests. The catalog callback resolves ids
// into display items the way the Postgres join does.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byUser  map[int][]int
	resolve func(ids []int) []Item
}

func NewInMemoryRepository(resolve func(ids []int) []Item) *InMemoryRepository {
	if resolve == nil {
		resolve = func([]int) []Item { return []Item{} }
	}
	return &InMemoryRepository{byUser: make(map[int][]int), resolve: resolve}
}

func (r *InMemoryRepository) Add(userID, menuItemID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.byUser[userID] {
		if id == menuItemID {
			return nil, ErrAlreadyFavorite
		}
	}
	r.byUser[userID] = append(r.byUser[userID], menuItemID)
	return append([]int(nil), r.byUser[userID]...), nil
}

func (r *InMemoryRepository) Remove(userID, menuItemID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byUser[userID]
	for i, id := range ids {
		if id == menuItemID {
			r.byUser[userID] = append(ids[:i], ids[i+1:]...)
			return append([]int(nil), r.byUser[userID]...), nil
		}
	}
	return nil, ErrNotFavorite
}

func (r *InMemoryRepository) List(userID int) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.byUser[userID]), nil
}
