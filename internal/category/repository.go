package category

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("category not found")

type Repository interface {
	List(limit int) ([]Category, error)
	Create(c Category) (Category, error)
	Update(id int, c Category) (Category, error)
	Delete(id int) error
}

type InMemoryRepository struct {
	mu         sync.RWMutex
	categories []Category
	nextID     int
}

func NewInMemoryRepository(seed []Category) *InMemoryRepository {
	repo := &InMemoryRepository{categories: append([]Category(nil), seed...), nextID: 1}
	for _, c := range seed {
		if c.ID >= repo.nextID {
			repo.nextID = c.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) List(limit int) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Create(c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	}
	r.categories = append(r.categories, c)
	return c, nil
}

func (r *InMemoryRepository) Update(id int, update Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.categories {
		if r.categories[i].ID == id {
			update.ID = id
			r.categories[i] = update
			return update, nil
		}
	}
	return Category{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.categories {
		if r.categories[i].ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
