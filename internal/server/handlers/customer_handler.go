package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
	"github.com/kuttybrothers/fleetdesk/internal/service/customers"
)

// CustomerService is the customer behaviour the endpoints need.
type CustomerService interface {
	List(ctx context.Context, query string) ([]models.Customer, error)
	Create(ctx context.Context, input models.CustomerInput) (models.Customer, error)
	Update(ctx context.Context, id string, input models.CustomerInput) (models.Customer, error)
	Delete(ctx context.Context, id string) error
}

// CustomerHandler serves customer CRUD endpoints.
type CustomerHandler struct {
	svc    CustomerService
	logger *zap.Logger
}

// NewCustomerHandler constructs the HTTP handler adapter.
func NewCustomerHandler(svc CustomerService, logger *zap.Logger) *CustomerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerHandler{svc: svc, logger: logger}
}

// List returns customers matching the optional q parameter.
func (h *CustomerHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logger.Error("failed listing customers", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load customers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": list})
}

// Create stores a new customer.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req models.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid customer payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	customer, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "create", err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// Update replaces the writable fields of a customer.
func (h *CustomerHandler) Update(c *gin.Context) {
	var req models.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid customer payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	customer, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, "update", err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// Delete removes a customer.
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "delete", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CustomerHandler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, customers.ErrInvalidCustomer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, customers.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
	default:
		h.logger.Error("customer operation failed", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to save customer"})
	}
}
