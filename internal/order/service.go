package order

import (
	"time"

	"github.com/selamkitchen/restaurant-backend/internal/owner"
)

// Service wraps the repository with checkout validation and the status state
// machine.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Checkout converts the owner's cart into an order. The repository performs
// the conversion atomically; this layer validates the metadata and resolves
// the nullable user reference for guest checkout.
func (s *Service) Checkout(o owner.Owner, draft Draft) (Order, error) {
	if !draft.Type.Valid() {
		draft.Type = TypePickup
	}
	var userID *int
	if o.IsUser() {
		id := o.UserID
		userID = &id
	}
	return s.repo.CreateFromCart(o.Key(), userID, draft)
}

// GetForOwner returns an order with its lines, refusing to serve another
// owner's order.
func (s *Service) GetForOwner(o owner.Owner, id int) (Order, []Line, error) {
	ord, lines, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, nil, err
	}
	if ord.OwnerKey != o.Key() {
		return Order{}, nil, ErrNotFound
	}
	return ord, lines, nil
}

func (s *Service) ListForOwner(o owner.Owner) ([]Order, error) {
	return s.repo.ListByOwner(o.Key())
}

func (s *Service) Get(id int) (Order, []Line, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListAll(status *Status, limit, offset int) ([]Order, error) {
	return s.repo.ListAll(status, limit, offset)
}

// UpdateStatus validates the transition against the current stored status
// before applying it. Terminal orders are never modified.
func (s *Service) UpdateStatus(id int, next Status) (Order, error) {
	if !next.Valid() {
		return Order{}, ErrInvalidTransition
	}
	current, _, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if current.Status.Terminal() {
		return Order{}, ErrTerminalStatus
	}
	if !current.Status.CanTransitionTo(next) {
		return Order{}, ErrInvalidTransition
	}
	return s.repo.UpdateStatus(id, current.Status, next)
}

// SetEstimatedReady posts the kitchen's estimate. This drives the
// "ready_time" display overlay only; it never changes the stored status.
func (s *Service) SetEstimatedReady(id int, at time.Time) (Order, error) {
	current, _, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if current.Status.Terminal() {
		return Order{}, ErrTerminalStatus
	}
	return s.repo.SetEstimatedReady(id, at)
}
