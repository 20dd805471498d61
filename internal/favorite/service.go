package favorite

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Add(userID, menuItemID int) ([]int, error) {
	if userID <= 0 || menuItemID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Add(userID, menuItemID)
}

func (s *Service) Remove(userID, menuItemID int) ([]int, error) {
	if userID <= 0 || menuItemID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Remove(userID, menuItemID)
}

func (s *Service) List(userID int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.List(userID)
}
