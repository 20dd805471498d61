package category

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns up to limit categories for the storefront.
func (s *Service) List(limit int) []Category {
	items, err := s.repo.List(limit)
	if err != nil {
		return []Category{}
	}
	return items
}

func (s *Service) Create(c Category) (Category, error) {
	return s.repo.Create(c)
}

func (s *Service) Update(id int, c Category) (Category, error) {
	return s.repo.Update(id, c)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
