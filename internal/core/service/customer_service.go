package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vidly/rental-system/internal/core/domain"
	"github.com/vidly/rental-system/internal/core/ports"
)

type CustomerService struct {
	repo ports.CustomerRepository
	log  zerolog.Logger
}

func NewCustomerService(repo ports.CustomerRepository, log zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, log: log}
}

func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, in ports.CustomerInput) (*domain.Customer, error) {
	created, err := s.repo.Create(ctx, &domain.Customer{Name: in.Name, Phone: in.Phone, IsGold: in.IsGold})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("customer_id", created.ID).Msg("customer created")
	return created, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, in ports.CustomerInput) (*domain.Customer, error) {
	return s.repo.Update(ctx, &domain.Customer{ID: id, Name: in.Name, Phone: in.Phone, IsGold: in.IsGold})
}

func (s *CustomerService) Delete(ctx context.Context, id string) (*domain.Customer, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("customer_id", id).Msg("customer deleted")
	return deleted, nil
}
