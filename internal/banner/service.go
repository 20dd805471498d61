package banner

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns up to limit banners.
func (s *Service) List(limit int) []Banner {
	items, err := s.repo.List(limit)
	if err != nil {
		return []Banner{}
	}
	return items
}

func (s *Service) Create(b Banner) (Banner, error) {
	return s.repo.Create(b)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
