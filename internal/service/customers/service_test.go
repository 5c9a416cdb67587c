package customers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
	"github.com/kuttybrothers/fleetdesk/internal/repository/memory"
	"github.com/kuttybrothers/fleetdesk/internal/repository/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st := memory.NewStore(zap.NewNop())
	t.Cleanup(func() { _ = st.Close() })

	svc := NewService(st, "rentals/customers", zap.NewNop())
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, models.CustomerInput{Name: " Ravi Builders ", Phone: "9876543210"})
	require.NoError(t, err)
	assert.NotEmpty(t, customer.ID)
	assert.Equal(t, "Ravi Builders", customer.Name)
	assert.Equal(t, models.CustomerIndividual, customer.Type)
	assert.Equal(t, models.CustomerActive, customer.Status)
	assert.NotZero(t, customer.CreatedAt)

	_, err = svc.Create(ctx, models.CustomerInput{Name: "No Phone"})
	assert.ErrorIs(t, err, ErrInvalidCustomer)

	_, err = svc.Create(ctx, models.CustomerInput{Name: "X", Phone: "1", Type: "Partnership"})
	assert.ErrorIs(t, err, ErrInvalidCustomer)
}

func TestListNewestFirstWithQuery(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, input := range []models.CustomerInput{
		{Name: "Anand Traders", Phone: "9000011111", Email: "sales@anand.in", Type: "company"},
		{Name: "Bala", Phone: "9000022222", Email: "bala@example.com"},
		{Name: "Chitra Constructions", Phone: "9111133333", Email: "office@chitra.in", Type: "Company"},
	} {
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Chitra Constructions", all[0].Name)
	assert.Equal(t, "Anand Traders", all[2].Name)
	assert.Equal(t, models.CustomerCompany, all[2].Type)

	byEmail, err := svc.List(ctx, "EXAMPLE.COM")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Bala", byEmail[0].Name)

	byPhone, err := svc.List(ctx, "90000")
	require.NoError(t, err)
	assert.Len(t, byPhone, 2)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.CustomerInput{Name: "Bala", Phone: "9000022222"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, models.CustomerInput{Name: "Bala K", Phone: "9000022222", Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, models.CustomerInactive, updated.Status)
	assert.NotZero(t, updated.UpdatedAt)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.ID, updated.ID)

	list, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bala K", list[0].Name)
	assert.Equal(t, created.CreatedAt, list[0].CreatedAt)

	require.NoError(t, svc.Delete(ctx, created.ID))

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Update(ctx, "missing", models.CustomerInput{Name: "A", Phone: "1"})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
