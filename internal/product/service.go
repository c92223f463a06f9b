package product

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]Product, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// AdjustStock debits (negative delta) or credits a product's stock.
func (s *Service) AdjustStock(id int, delta int) (Product, error) {
	return s.repo.AdjustStock(id, delta)
}
