package banner

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("banner not found")

type Repository interface {
	List(limit int) ([]Banner, error)
	Create(b Banner) (Banner, error)
	Delete(id int) error
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	banners []Banner
	nextID  int
}

func NewInMemoryRepository(seed []Banner) *InMemoryRepository {
	repo := &InMemoryRepository{banners: append([]Banner(nil), seed...), nextID: 1}
	for _, b := range seed {
		if b.ID >= repo.nextID {
			repo.nextID = b.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) List(limit int) ([]Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Banner, len(r.banners))
	copy(out, r.banners)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Create(b Banner) (Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.nextID
		r.nextID++
	}
	r.banners = append(r.banners, b)
	return b, nil
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.banners {
		if r.banners[i].ID == id {
			r.banners = append(r.banners[:i], r.banners[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
