package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductCreateRequest represents the product creation payload
type ProductCreateRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"money"`
	Stock       int             `json:"stock" validate:"gte=0,lte=2147483647"`
}

// ProductUpdateRequest represents a partial product update; omitted fields
// are left untouched and description may be cleared with null
type ProductUpdateRequest struct {
	Name        domain.Field[string]          `json:"name" validate:"omitempty,min=1,max=255"`
	Description domain.Field[string]          `json:"description"`
	Price       domain.Field[decimal.Decimal] `json:"price" validate:"omitempty,money"`
	Stock       domain.Field[int]             `json:"stock" validate:"omitempty,gte=0,lte=2147483647"`
}

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	productService service.ProductService
	pagination     service.Pagination
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, pagination service.Pagination, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		pagination:     pagination,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductCreateRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := h.productService.CreateProduct(r.Context(), product); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r, h.pagination)
	if !ok {
		return
	}

	products, err := h.productService.ListProducts(r.Context(), page)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req ProductUpdateRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	var nulls nullable
	nulls.check("name", req.Name.Null)
	nulls.check("price", req.Price.Null)
	nulls.check("stock", req.Stock.Null)
	if nulls.respond(w) {
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct answers with the product as it was before removal
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.productService.DeleteProduct(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}
