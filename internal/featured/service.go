package featured

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns up to limit featured items starting at offset.
func (s *Service) List(limit, offset int) []Item {
	items, err := s.repo.List(limit, offset)
	if err != nil {
		return []Item{}
	}
	return items
}
