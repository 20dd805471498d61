package location

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List(limit int) []Location {
	items, err := s.repo.List(limit)
	if err != nil {
		return []Location{}
	}
	return items
}
