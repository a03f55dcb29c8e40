package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CustomerCreateRequest represents the customer creation payload
type CustomerCreateRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address"`
}

// CustomerUpdateRequest represents a partial customer update; phone and
// address may be cleared with null
type CustomerUpdateRequest struct {
	Name    domain.Field[string] `json:"name" validate:"omitempty,min=1,max=255"`
	Email   domain.Field[string] `json:"email" validate:"omitempty,email,max=255"`
	Phone   domain.Field[string] `json:"phone" validate:"omitempty,max=50"`
	Address domain.Field[string] `json:"address"`
}

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	customerService service.CustomerService
	pagination      service.Pagination
	logger          *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService service.CustomerService, pagination service.Pagination, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		pagination:      pagination,
		logger:          logger,
	}
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Get("/{id}", h.GetCustomer)
		r.Put("/{id}", h.UpdateCustomer)
		r.Delete("/{id}", h.DeleteCustomer)
		r.Get("/{id}/orders", h.ListCustomerOrders)
	})
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerCreateRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	customer := &domain.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.customerService.CreateCustomer(r.Context(), customer); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r, h.pagination)
	if !ok {
		return
	}

	customers, err := h.customerService.ListCustomers(r.Context(), page)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req CustomerUpdateRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	var nulls nullable
	nulls.check("name", req.Name.Null)
	nulls.check("email", req.Email.Null)
	if nulls.respond(w) {
		return
	}

	customer, err := h.customerService.UpdateCustomer(r.Context(), id, domain.CustomerPatch{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, customer)
}

// DeleteCustomer answers with the customer as it was before removal
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.DeleteCustomer(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	orders, err := h.customerService.CustomerOrders(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}
