package dashboard

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Summary() (Summary, error) {
	return s.repo.Summary()
}

func (s *Service) TopItems(limit int) ([]TopItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.repo.TopItems(limit)
}
