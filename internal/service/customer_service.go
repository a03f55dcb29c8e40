package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService defines the interface for customer business logic
type CustomerService interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	ListCustomers(ctx context.Context, page repository.Page) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, patch domain.CustomerPatch) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	// CustomerOrders lists the orders of an existing customer
	CustomerOrders(ctx context.Context, id uuid.UUID) ([]*domain.Order, error)
}

type customerService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewCustomerService creates a new instance of CustomerService
func NewCustomerService(store repository.Store, logger *zap.Logger) CustomerService {
	return &customerService{store: store, logger: logger}
}

// CreateCustomer rejects an email that is already registered with
// repository.ErrCustomerEmailExists. The unique index backs the pre-check.
func (s *customerService) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	existing, err := s.store.Customers().FindByEmail(ctx, customer.Email)
	if err != nil && !errors.Is(err, repository.ErrCustomerNotFound) {
		return fmt.Errorf("failed to check existing customer: %w", err)
	}
	if existing != nil {
		return repository.ErrCustomerEmailExists
	}

	if err := s.store.Customers().Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrCustomerEmailExists) {
			return err
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("Customer created", zap.String("customer_id", customer.ID.String()))
	return nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return s.store.Customers().FindByID(ctx, id)
}

func (s *customerService) ListCustomers(ctx context.Context, page repository.Page) ([]*domain.Customer, error) {
	return s.store.Customers().List(ctx, page)
}

// UpdateCustomer applies the present fields. A changed email is checked
// against every other customer first.
func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, patch domain.CustomerPatch) (*domain.Customer, error) {
	if patch.Email.Set && !patch.Email.Null {
		existing, err := s.store.Customers().FindByEmail(ctx, patch.Email.Value)
		if err != nil && !errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, fmt.Errorf("failed to check existing customer: %w", err)
		}
		if existing != nil && existing.ID != id {
			if _, err := s.store.Customers().FindByID(ctx, id); err != nil {
				return nil, err
			}
			return nil, repository.ErrCustomerEmailExists
		}
	}

	customer, err := s.store.Customers().Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Customer updated", zap.String("customer_id", id.String()))
	return customer, nil
}

// DeleteCustomer returns the removed customer; customers with orders are kept
// (repository.ErrCustomerHasOrders)
func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, err := s.store.Customers().Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Customer deleted", zap.String("customer_id", id.String()))
	return customer, nil
}

func (s *customerService) CustomerOrders(ctx context.Context, id uuid.UUID) ([]*domain.Order, error) {
	if _, err := s.store.Customers().FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Orders().ListByCustomer(ctx, id)
}
