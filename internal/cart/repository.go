package cart

import (
	"errors"
	"strconv"
	"sync"
)

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// Repository provides access to cart lines. Upsert must be atomic with
// respect to the (owner, item, variant) uniqueness so concurrent adds from
// two tabs never produce duplicate rows.
type Repository interface {
	Upsert(line Line) (Line, error)
	List(ownerKey string) ([]Line, error)
	SetQuantity(ownerKey string, menuItemID int, variant *string, quantity int) (Line, error)
	Remove(ownerKey string, menuItemID int, variant *string) error
	RemoveByLineID(ownerKey string, lineID int) error
	Clear(ownerKey string) error
	Transfer(fromKey, toKey string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	lines  []Line
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) Upsert(line Line) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := variantKey(line.Variant)
	for i := range r.lines {
		if r.lines[i].OwnerKey == line.OwnerKey &&
			r.lines[i].MenuItemID == line.MenuItemID &&
			variantKey(r.lines[i].Variant) == key {
			// existing snapshot price wins
			r.lines[i].Quantity += line.Quantity
			return r.lines[i], nil
		}
	}
	line.ID = r.nextID
	r.nextID++
	r.lines = append(r.lines, line)
	return line, nil
}

func (r *InMemoryRepository) List(ownerKey string) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Line, 0)
	for _, l := range r.lines {
		if l.OwnerKey == ownerKey {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) SetQuantity(ownerKey string, menuItemID int, variant *string, quantity int) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := variantKey(variant)
	for i := range r.lines {
		if r.lines[i].OwnerKey == ownerKey &&
			r.lines[i].MenuItemID == menuItemID &&
			variantKey(r.lines[i].Variant) == key {
			r.lines[i].Quantity = quantity
			return r.lines[i], nil
		}
	}
	return Line{}, ErrLineNotFound
}

func (r *InMemoryRepository) Remove(ownerKey string, menuItemID int, variant *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := variantKey(variant)
	for i := range r.lines {
		if r.lines[i].OwnerKey == ownerKey &&
			r.lines[i].MenuItemID == menuItemID &&
			variantKey(r.lines[i].Variant) == key {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (r *InMemoryRepository) RemoveByLineID(ownerKey string, lineID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.lines {
		if r.lines[i].OwnerKey == ownerKey && r.lines[i].ID == lineID {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (r *InMemoryRepository) Clear(ownerKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.lines[:0]
	for _, l := range r.lines {
		if l.OwnerKey != ownerKey {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	return nil
}

// Transfer re-owns every line of fromKey to toKey. Overlapping (item,
// variant) lines are merged by summing quantities; the destination line's
// price snapshot is kept.
func (r *InMemoryRepository) Transfer(fromKey, toKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity := func(l Line) string {
		return strconv.Itoa(l.MenuItemID) + "|" + variantKey(l.Variant)
	}

	moving := make([]Line, 0)
	kept := make([]Line, 0, len(r.lines))
	for _, l := range r.lines {
		if l.OwnerKey == fromKey {
			moving = append(moving, l)
			continue
		}
		kept = append(kept, l)
	}

	for _, src := range moving {
		merged := false
		for i := range kept {
			if kept[i].OwnerKey == toKey && identity(kept[i]) == identity(src) {
				kept[i].Quantity += src.Quantity
				merged = true
				break
			}
		}
		if !merged {
			src.OwnerKey = toKey
			kept = append(kept, src)
		}
	}
	r.lines = kept
	return nil
}
