package cart

import (
	"github.com/shopspring/decimal"

	"github.com/selamkitchen/restaurant-backend/internal/owner"
)

// Catalog is the slice of the menu service the cart needs: validating an
// item and computing the variant-adjusted unit price.
type Catalog interface {
	PriceFor(menuItemID int, variant *string) (decimal.Decimal, string, error)
}

// Service orchestrates cart operations.
type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// AddResult feeds the "added Doro Wat (2 in cart)" style UI toast.
type AddResult struct {
	ItemName string `json:"itemName"`
	Quantity int    `json:"lineQuantity"`
}

// PricedLine is a cart line with its computed subtotal.
type PricedLine struct {
	Line
	Subtotal decimal.Decimal `json:"subtotal"`
}

// View is the full cart as returned to the storefront.
type View struct {
	Lines []PricedLine    `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// Add validates the item, snapshots a unit price (base plus any variant
// surcharge) and upserts the line. A repeated add of the same (item, variant)
// increments the existing line's quantity; that line's snapshot price is left
// untouched.
func (s *Service) Add(o owner.Owner, menuItemID, quantity int, variant, instructions *string) (AddResult, error) {
	if quantity <= 0 {
		return AddResult{}, ErrInvalidQuantity
	}
	price, name, err := s.catalog.PriceFor(menuItemID, variant)
	if err != nil {
		return AddResult{}, err
	}

	line, err := s.repo.Upsert(Line{
		OwnerKey:     o.Key(),
		MenuItemID:   menuItemID,
		Variant:      variant,
		Quantity:     quantity,
		UnitPrice:    price,
		Instructions: instructions,
	})
	if err != nil {
		return AddResult{}, err
	}
	return AddResult{ItemName: name, Quantity: line.Quantity}, nil
}

func (s *Service) List(o owner.Owner) (View, error) {
	lines, err := s.repo.List(o.Key())
	if err != nil {
		return View{}, err
	}
	view := View{Lines: make([]PricedLine, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		subtotal := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		view.Lines = append(view.Lines, PricedLine{Line: l, Subtotal: subtotal})
		view.Total = view.Total.Add(subtotal)
	}
	return view, nil
}

// UpdateQuantity sets the quantity of an existing line; zero or negative is
// equivalent to removing it.
func (s *Service) UpdateQuantity(o owner.Owner, menuItemID int, variant *string, quantity int) error {
	if quantity <= 0 {
		return s.repo.Remove(o.Key(), menuItemID, variant)
	}
	_, err := s.repo.SetQuantity(o.Key(), menuItemID, variant, quantity)
	return err
}

func (s *Service) Remove(o owner.Owner, menuItemID int, variant *string) error {
	return s.repo.Remove(o.Key(), menuItemID, variant)
}

func (s *Service) RemoveLine(o owner.Owner, lineID int) error {
	return s.repo.RemoveByLineID(o.Key(), lineID)
}

func (s *Service) Clear(o owner.Owner) error {
	return s.repo.Clear(o.Key())
}

// Transfer re-owns the anonymous session's cart to the freshly authenticated
// user, summing quantities where both carts hold the same (item, variant).
func (s *Service) Transfer(sessionID string, userID int) error {
	if sessionID == "" || userID <= 0 {
		return nil
	}
	return s.repo.Transfer(owner.SessionKey(sessionID), owner.UserKey(userID))
}
