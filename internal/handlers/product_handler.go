package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog/internal/apperror"
	"catalog/internal/dto"
	"catalog/internal/response"
	"catalog/internal/services"
	"catalog/internal/validation"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	products   *services.ProductService
	categories *services.CategoryService
	validator  *validation.Validator
	log        *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products *services.ProductService, categories *services.CategoryService, v *validation.Validator, log *zap.Logger) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductHandler{
		products:   products,
		categories: categories,
		validator:  v,
		log:        log,
	}
}

// RegisterRoutes registers the product routes with the Fiber router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/sku/:sku", h.HandleGetProductBySKU)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Patch("/:id/toggle-active", h.HandleToggleActive)
	productRoutes.Patch("/:id/stock", h.HandleUpdateStock)
}

// HandleGetProducts lists products with filtering, sorting and pagination.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var q dto.ProductQuery
	if err := bindQuery(c, h.validator, &q); err != nil {
		return err
	}

	products, meta, err := h.products.List(c.UserContext(), q.Filters())
	if err != nil {
		return err
	}
	return response.Paginated(c, "Products retrieved successfully", products, meta)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := idParam(c, h.validator)
	if err != nil {
		return err
	}

	product, err := h.products.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NotFound("Product with ID %s not found", id)
	}
	return response.OK(c, "Product retrieved successfully", product)
}

// HandleGetProductBySKU retrieves a single product by its SKU.
func (h *ProductHandler) HandleGetProductBySKU(c *fiber.Ctx) error {
	sku := strings.TrimSpace(param(c, "sku"))
	if sku == "" {
		return apperror.Validation("SKU is required",
			apperror.FieldError{Field: "sku", Rule: "required", Message: "sku is required"})
	}

	product, err := h.products.GetBySKU(c.UserContext(), sku)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NotFound("Product with SKU %s not found", sku)
	}
	return response.OK(c, "Product retrieved successfully", product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductInput
	if err := bindBody(c, h.validator, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	if err := h.ensureCategory(ctx, in.CategoryID); err != nil {
		return err
	}
	if err := h.ensureSKUFree(ctx, in.SKU); err != nil {
		return err
	}

	product, err := h.products.Create(ctx, in.Product())
	if err != nil {
		return err
	}
	return response.Created(c, "Product created successfully", product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := idParam(c, h.validator)
	if err != nil {
		return err
	}
	var in dto.UpdateProductInput
	if err := bindBody(c, h.validator, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	current, err := h.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return apperror.NotFound("Product with ID %s not found", id)
	}

	if in.CategoryID.Present() && in.CategoryID.Value != current.CategoryID {
		if err := h.ensureCategory(ctx, in.CategoryID.Value); err != nil {
			return err
		}
	}
	if in.SKU.Present() && in.SKU.Value != current.SKU {
		if err := h.ensureSKUFree(ctx, in.SKU.Value); err != nil {
			return err
		}
	}

	product, err := h.products.Update(ctx, current, in)
	if err != nil {
		return err
	}
	return response.OK(c, "Product updated successfully", product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := idParam(c, h.validator)
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return response.NoContent(c)
}

// HandleToggleActive flips the active flag of a product.
func (h *ProductHandler) HandleToggleActive(c *fiber.Ctx) error {
	id, err := idParam(c, h.validator)
	if err != nil {
		return err
	}

	product, err := h.products.ToggleActive(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, "Product status toggled successfully", product)
}

// HandleUpdateStock adjusts the stock of a product by a signed quantity.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	id, err := idParam(c, h.validator)
	if err != nil {
		return err
	}
	var in dto.StockAdjustmentInput
	if err := bindBody(c, h.validator, &in); err != nil {
		return err
	}

	product, err := h.products.UpdateStock(c.UserContext(), id, in.Quantity)
	if err != nil {
		return err
	}
	return response.OK(c, "Product stock updated successfully", product)
}

func (h *ProductHandler) ensureCategory(ctx context.Context, categoryID string) error {
	category, err := h.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		h.log.Debug("product references unknown category", zap.String("category_id", categoryID))
		return apperror.Validation("Category not found",
			apperror.FieldError{Field: "categoryId", Rule: "exists", Message: "categoryId must reference an existing category"})
	}
	return nil
}

func (h *ProductHandler) ensureSKUFree(ctx context.Context, sku string) error {
	existing, err := h.products.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.Conflict("Product with SKU %s already exists", sku)
	}
	return nil
}
