package menu

import (
	"errors"
	"sync"
)

var (
	ErrNotFound       = errors.New("menu item not found")
	ErrUnknownVariant = errors.New("unknown variant for menu item")
	ErrUnavailable    = errors.New("menu item is not available")
)

type Repository interface {
	List(categoryID *int) ([]Item, error)
	GetByID(id int) (Item, error)
	Create(it Item) (Item, error)
	Update(id int, it Item) (Item, error)
	Delete(id int) error
	SetAvailability(id int, available bool) error
	AddVariant(v Variant) (Variant, error)
	DeleteVariant(itemID, variantID int) error
}

// InMemoryRepository is a simple in-memory implementation useful for tests
// and local seeding.
type InMemoryRepository struct {
	mu          sync.RWMutex
	items       []Item
	nextID      int
	nextVariant int
}

func NewInMemoryRepository(seed []Item) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1, nextVariant: 1}
	for _, it := range seed {
		if it.ID == 0 {
			it.ID = r.nextID
		}
		if it.ID >= r.nextID {
			r.nextID = it.ID + 1
		}
		for i := range it.Variants {
			if it.Variants[i].ID == 0 {
				it.Variants[i].ID = r.nextVariant
			}
			it.Variants[i].ItemID = it.ID
			if it.Variants[i].ID >= r.nextVariant {
				r.nextVariant = it.Variants[i].ID + 1
			}
		}
		r.items = append(r.items, it)
	}
	return r
}

func (r *InMemoryRepository) List(categoryID *int) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Item, 0, len(r.items))
	for _, it := range r.items {
		if categoryID != nil && (it.CategoryID == nil || *it.CategoryID != *categoryID) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) Create(it Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it.ID = r.nextID
	r.nextID++
	r.items = append(r.items, it)
	return it, nil
}

func (r *InMemoryRepository) Update(id int, it Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			it.ID = id
			it.Variants = r.items[i].Variants
			r.items[i] = it
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) SetAvailability(id int, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Available = available
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) AddVariant(v Variant) (Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == v.ItemID {
			v.ID = r.nextVariant
			r.nextVariant++
			r.items[i].Variants = append(r.items[i].Variants, v)
			return v, nil
		}
	}
	return Variant{}, ErrNotFound
}

func (r *InMemoryRepository) DeleteVariant(itemID, variantID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID != itemID {
			continue
		}
		for j := range r.items[i].Variants {
			if r.items[i].Variants[j].ID == variantID {
				r.items[i].Variants = append(r.items[i].Variants[:j], r.items[i].Variants[j+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}
