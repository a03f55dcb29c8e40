package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemRequest is one requested line of a new order
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0,lte=2147483647"`
}

// OrderCreateRequest represents the order creation payload. Status defaults
// to pending.
type OrderCreateRequest struct {
	CustomerID uuid.UUID          `json:"customer_id" validate:"required"`
	Status     string             `json:"status"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderStatusRequest represents the status update payload. Unknown and empty
// statuses are rejected by the service with the allowed set.
type OrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderService service.OrderService
	pagination   service.Pagination
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, pagination service.Pagination, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		pagination:   pagination,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}", h.UpdateOrderStatus)
		r.Delete("/{id}", h.DeleteOrder)
		r.Put("/{id}/status", h.UpdateOrderStatus)
		r.Post("/{id}/cancel", h.CancelOrder)
	})
}

// CreateOrder places an order; all lines succeed or nothing is written
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderCreateRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	create := domain.OrderCreate{
		CustomerID: req.CustomerID,
		Status:     req.Status,
		Items:      make([]domain.OrderLine, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		create.Items = append(create.Items, domain.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.CreateOrder(r.Context(), create)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r, h.pagination)
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrders(r.Context(), page)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder answers with the order, its items and its customer
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req OrderStatusRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// DeleteOrder answers with the removed order and its items
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orderService.DeleteOrder(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}
