package order

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/selamkitchen/restaurant-backend/internal/cart"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMenuItemGone      = errors.New("a cart line references a menu item that no longer exists")
	ErrTerminalStatus    = errors.New("order is in a terminal status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// Repository defines persistence for orders. CreateFromCart is the one
// transactional operation in the system: it must read the owner's cart,
// write the order and its lines, and clear the cart as a single unit.
type Repository interface {
	CreateFromCart(ownerKey string, userID *int, draft Draft) (Order, error)
	GetByID(id int) (Order, []Line, error)
	ListByOwner(ownerKey string) ([]Order, error)
	ListAll(status *Status, limit, offset int) ([]Order, error)
	UpdateStatus(id int, from, to Status) (Order, error)
	SetEstimatedReady(id int, at time.Time) (Order, error)
}

// InMemoryRepository implements Repository against the in-memory cart store,
// mirroring the all-or-nothing semantics of the Postgres version. Used by
// handler and service tests.
type InMemoryRepository struct {
	mu     sync.Mutex
	carts  *cart.InMemoryRepository
	orders []Order
	lines  map[int][]Line
	nextID int
}

func NewInMemoryRepository(carts *cart.InMemoryRepository) *InMemoryRepository {
	return &InMemoryRepository{carts: carts, lines: make(map[int][]Line), nextID: 1}
}

func (r *InMemoryRepository) CreateFromCart(ownerKey string, userID *int, draft Draft) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if draft.IdempotencyKey != nil {
		for _, o := range r.orders {
			if o.OwnerKey == ownerKey && o.IdempotencyKey != nil && *o.IdempotencyKey == *draft.IdempotencyKey {
				return o, nil
			}
		}
	}

	cartLines, err := r.carts.List(ownerKey)
	if err != nil {
		return Order{}, err
	}
	if len(cartLines) == 0 {
		return Order{}, ErrEmptyCart
	}

	total := decimal.Zero
	orderLines := make([]Line, 0, len(cartLines))
	for _, cl := range cartLines {
		total = total.Add(cl.UnitPrice.Mul(decimal.NewFromInt(int64(cl.Quantity))))
		orderLines = append(orderLines, Line{
			MenuItemID:   cl.MenuItemID,
			Quantity:     cl.Quantity,
			UnitPrice:    cl.UnitPrice,
			Variant:      cl.Variant,
			Instructions: cl.Instructions,
		})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	o := Order{
		ID:             r.nextID,
		OwnerKey:       ownerKey,
		UserID:         userID,
		Total:          total,
		Status:         StatusPending,
		Type:           draft.Type,
		ScheduledAt:    draft.ScheduledAt,
		Instructions:   draft.Instructions,
		AddressID:      draft.AddressID,
		IdempotencyKey: draft.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.nextID++
	for i := range orderLines {
		orderLines[i].ID = i + 1
		orderLines[i].OrderID = o.ID
	}

	if err := r.carts.Clear(ownerKey); err != nil {
		return Order{}, err
	}
	r.orders = append(r.orders, o)
	r.lines[o.ID] = orderLines
	return o, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, []Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, r.lines[id], nil
		}
	}
	return Order{}, nil, ErrNotFound
}

func (r *InMemoryRepository) ListByOwner(ownerKey string) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.OwnerKey == ownerKey {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListAll(status *Status, limit, offset int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, o)
	}
	if offset >= len(out) {
		return []Order{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id int, from, to Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			if r.orders[i].Status != from {
				return Order{}, ErrInvalidTransition
			}
			r.orders[i].Status = to
			r.orders[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) SetEstimatedReady(id int, at time.Time) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].EstimatedReadyAt = &at
			r.orders[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			return r.orders[i], nil
		}
	}
	return Order{}, ErrNotFound
}
