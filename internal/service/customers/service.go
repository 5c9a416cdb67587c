package customers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
	"github.com/kuttybrothers/fleetdesk/internal/repository/store"
)

var (
	// ErrInvalidCustomer indicates the customer payload failed validation.
	ErrInvalidCustomer = errors.New("invalid customer")
	// ErrCustomerNotFound is returned when the customer id does not exist.
	ErrCustomerNotFound = fmt.Errorf("customer: %w", store.ErrNotFound)
)

// Service manages rental customers.
type Service struct {
	store  store.Store
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a customer service over the records under path.
func NewService(st store.Store, path string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, path: path, logger: logger, now: time.Now}
}

// List returns customers newest first. A non-empty query keeps customers whose
// name or email contains it (ignoring case) or whose phone contains it.
func (s *Service) List(ctx context.Context, query string) ([]models.Customer, error) {
	snap, err := s.store.Get(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	needle := strings.TrimSpace(query)
	lowered := strings.ToLower(needle)

	customers := make([]models.Customer, 0, len(snap))
	for id, raw := range snap {
		var customer models.Customer
		if err := json.Unmarshal(raw, &customer); err != nil {
			s.logger.Warn("skip malformed customer", zap.String("id", id), zap.Error(err))
			continue
		}
		customer.ID = id

		if needle != "" &&
			!strings.Contains(strings.ToLower(customer.Name), lowered) &&
			!strings.Contains(strings.ToLower(customer.Email), lowered) &&
			!strings.Contains(customer.Phone, needle) {
			continue
		}
		customers = append(customers, customer)
	}

	sort.SliceStable(customers, func(i, j int) bool {
		if customers[i].CreatedAt != customers[j].CreatedAt {
			return customers[i].CreatedAt > customers[j].CreatedAt
		}
		return customers[i].ID > customers[j].ID
	})
	return customers, nil
}

// Create validates input and stores a new customer.
func (s *Service) Create(ctx context.Context, input models.CustomerInput) (models.Customer, error) {
	customer, err := normalize(input)
	if err != nil {
		return models.Customer{}, err
	}
	customer.CreatedAt = s.now().UnixMilli()

	id, err := s.store.Append(ctx, s.path, customer)
	if err != nil {
		return models.Customer{}, fmt.Errorf("append customer: %w", err)
	}
	customer.ID = id

	s.logger.Info("customer created", zap.String("id", id), zap.String("name", customer.Name))
	return customer, nil
}

// Update replaces the writable fields of an existing customer.
func (s *Service) Update(ctx context.Context, id string, input models.CustomerInput) (models.Customer, error) {
	customer, err := normalize(input)
	if err != nil {
		return models.Customer{}, err
	}
	customer.ID = id
	customer.UpdatedAt = s.now().UnixMilli()

	fields := map[string]interface{}{
		"name":      customer.Name,
		"shortName": customer.ShortName,
		"phone":     customer.Phone,
		"email":     customer.Email,
		"type":      customer.Type,
		"gstNumber": customer.GSTNumber,
		"address":   customer.Address,
		"status":    customer.Status,
		"updatedAt": customer.UpdatedAt,
	}
	if err := s.store.Update(ctx, s.path, id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Customer{}, ErrCustomerNotFound
		}
		return models.Customer{}, fmt.Errorf("update customer %s: %w", id, err)
	}

	s.logger.Info("customer updated", zap.String("id", id))

	stored, err := s.find(ctx, id)
	if err != nil {
		s.logger.Warn("failed to reload updated customer", zap.String("id", id), zap.Error(err))
		return customer, nil
	}
	return stored, nil
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, s.path, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	s.logger.Info("customer deleted", zap.String("id", id))
	return nil
}

func (s *Service) find(ctx context.Context, id string) (models.Customer, error) {
	snap, err := s.store.Get(ctx, s.path)
	if err != nil {
		return models.Customer{}, fmt.Errorf("load customers: %w", err)
	}
	raw, ok := snap[id]
	if !ok {
		return models.Customer{}, ErrCustomerNotFound
	}

	var customer models.Customer
	if err := json.Unmarshal(raw, &customer); err != nil {
		return models.Customer{}, fmt.Errorf("decode customer %s: %w", id, err)
	}
	customer.ID = id
	return customer, nil
}

func normalize(input models.CustomerInput) (models.Customer, error) {
	customer := models.Customer{
		Name:      strings.TrimSpace(input.Name),
		ShortName: strings.TrimSpace(input.ShortName),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     strings.TrimSpace(input.Email),
		GSTNumber: strings.TrimSpace(input.GSTNumber),
		Address:   strings.TrimSpace(input.Address),
	}
	if customer.Name == "" || customer.Phone == "" {
		return models.Customer{}, fmt.Errorf("%w: name and phone are required", ErrInvalidCustomer)
	}

	customerType, ok := models.ParseCustomerType(input.Type)
	if !ok {
		return models.Customer{}, fmt.Errorf("%w: unknown type %q", ErrInvalidCustomer, input.Type)
	}
	status, ok := models.ParseCustomerStatus(input.Status)
	if !ok {
		return models.Customer{}, fmt.Errorf("%w: unknown status %q", ErrInvalidCustomer, input.Status)
	}
	customer.Type = customerType
	customer.Status = status
	return customer, nil
}
