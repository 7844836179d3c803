package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/apperror"
	"catalog/internal/dto"
	"catalog/internal/models"
	"catalog/internal/response"
	"catalog/internal/services"
	"catalog/internal/validation"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service   *services.CategoryService
	validator *validation.Validator
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService, v *validation.Validator) *CategoryHandler {
	return &CategoryHandler{
		service:   service,
		validator: v,
	}
}

// RegisterRoutes registers the category routes with the Fiber router.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)
}

func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	var q dto.CategoryQuery
	if err := bindQuery(c, h.validator, &q); err != nil {
		return err
	}

	categories, meta, err := h.service.List(c.UserContext(), q.Filters())
	if err != nil {
		return err
	}
	return response.Paginated(c, "Categories retrieved successfully", categories, meta)
}

func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	id, err := idParam(c, h.validator)
	if err != nil {
		return err
	}

	category, err := h.find(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, "Category retrieved successfully", category)
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryInput
	if err := bindBody(c, h.validator, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	if err := h.ensureNameFree(ctx, in.Name); err != nil {
		return err
	}

	category, err := h.service.Create(ctx, &models.Category{Name: in.Name, Description: in.Description})
	if err != nil {
		return err
	}
	return response.Created(c, "Category created successfully", category)
}

func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	id, err := idParam(c, h.validator)
	if err != nil {
		return err
	}
	var in dto.UpdateCategoryInput
	if err := bindBody(c, h.validator, &in); err != nil {
		return err
	}

	ctx := c.UserContext()
	current, err := h.find(ctx, id)
	if err != nil {
		return err
	}
	if in.Name.Present() && in.Name.Value != current.Name {
		if err := h.ensureNameFree(ctx, in.Name.Value); err != nil {
			return err
		}
	}

	category, err := h.service.Update(ctx, current, in)
	if err != nil {
		return err
	}
	return response.OK(c, "Category updated successfully", category)
}

// HandleDeleteCategory deletes a category that no product references.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id, err := idParam(c, h.validator)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	if _, err := h.find(ctx, id); err != nil {
		return err
	}
	count, err := h.service.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("Cannot delete category with %d existing products", count)
	}

	if err := h.service.Delete(ctx, id); err != nil {
		return err
	}
	return response.NoContent(c)
}

func (h *CategoryHandler) find(ctx context.Context, id string) (*models.Category, error) {
	category, err := h.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NotFound("Category with ID %s not found", id)
	}
	return category, nil
}

func (h *CategoryHandler) ensureNameFree(ctx context.Context, name string) error {
	existing, err := h.service.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.Conflict("Category with name %s already exists", name)
	}
	return nil
}
