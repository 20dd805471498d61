package menu

import "github.com/shopspring/decimal"

// Service provides catalog business logic. The cart package depends on
// PriceFor to price additions; everything else is plain CRUD.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(categoryID *int) []Item {
	items, err := s.repo.List(categoryID)
	if err != nil {
		return []Item{}
	}
	return items
}

func (s *Service) GetByID(id int) (Item, error) {
	return s.repo.GetByID(id)
}

// PriceFor computes the unit price for an item plus an optional variant
// surcharge, rounded to 2 decimal places. The item name is returned for UI
// feedback. A variant label that the item does not define is a validation
// error, and unavailable items cannot be priced.
func (s *Service) PriceFor(itemID int, variant *string) (decimal.Decimal, string, error) {
	it, err := s.repo.GetByID(itemID)
	if err != nil {
		return decimal.Zero, "", err
	}
	if !it.Available {
		return decimal.Zero, "", ErrUnavailable
	}
	price := it.Price
	if variant != nil {
		found := false
		for _, v := range it.Variants {
			if v.Name == *variant {
				price = price.Add(v.Surcharge)
				found = true
				break
			}
		}
		if !found {
			return decimal.Zero, "", ErrUnknownVariant
		}
	}
	return price.Round(2), it.Name, nil
}

func (s *Service) Create(it Item) (Item, error) {
	return s.repo.Create(it)
}

func (s *Service) Update(id int, it Item) (Item, error) {
	return s.repo.Update(id, it)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *Service) SetAvailability(id int, available bool) error {
	return s.repo.SetAvailability(id, available)
}

func (s *Service) AddVariant(v Variant) (Variant, error) {
	return s.repo.AddVariant(v)
}

func (s *Service) DeleteVariant(itemID, variantID int) error {
	return s.repo.DeleteVariant(itemID, variantID)
}
