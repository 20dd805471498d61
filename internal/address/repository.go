package address

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("address not found")

type Repository interface {
	ListByUser(userID int) ([]Address, error)
	Create(a Address) (Address, error)
	Update(userID, addressID int, a Address) (Address, error)
	Delete(userID, addressID int) error
}

// InMemoryRepository for tests.
type InMemoryRepository struct {
	mu     sync.Mutex
	data   map[int][]Address // keyed by userID
	nextID int
}

func NewInMemoryRepository(seed map[int][]Address) *InMemoryRepository {
	repo := &InMemoryRepository{data: make(map[int][]Address), nextID: 1}
	for userID, addrs := range seed {
		repo.data[userID] = append(repo.data[userID], addrs...)
		for _, a := range addrs {
			if a.ID >= repo.nextID {
				repo.nextID = a.ID + 1
			}
		}
	}
	return repo
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Address, len(r.data[userID]))
	copy(out, r.data[userID])
	return out, nil
}

func (r *InMemoryRepository) Create(a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	r.nextID++
	r.data[a.UserID] = append(r.data[a.UserID], a)
	return a, nil
}

func (r *InMemoryRepository) Update(userID, addressID int, update Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addrs := r.data[userID]
	for i, a := range addrs {
		if a.ID == addressID {
			a.Label = update.Label
			a.Details = update.Details
			a.Phone = update.Phone
			a.UpdatedAt = update.UpdatedAt
			r.data[userID][i] = a
			return a, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(userID, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	addrs := r.data[userID]
	for i, a := range addrs {
		if a.ID == addressID {
			r.data[userID] = append(addrs[:i], addrs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
