package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type AdminProductHandler struct {
	productUC  *usecase.ProductUsecase
	categoryUC *usecase.CategoryUsecase
}

func NewAdminProductHandler(productUC *usecase.ProductUsecase, categoryUC *usecase.CategoryUsecase) *AdminProductHandler {
	return &AdminProductHandler{productUC: productUC, categoryUC: categoryUC}
}

type AdminProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	CategoryID  *string         `json:"category_id"`
	ImageURL    string          `json:"image_url"`
	IsActive    bool            `json:"is_active"`
}

type AdminCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	ImageURL    string `json:"image_url"`
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)

	admin.POST("/categories", h.createCategory)
	admin.PUT("/categories/:id", h.updateCategory)
	admin.DELETE("/categories/:id", h.deleteCategory)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req AdminProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.productUC.CreateProduct(c.Request().Context(), toAdminProductInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	var req AdminProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.productUC.UpdateProduct(c.Request().Context(), c.Param("id"), toAdminProductInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	if err := h.productUC.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) createCategory(c echo.Context) error {
	var req AdminCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.categoryUC.CreateCategory(c.Request().Context(), toCategoryInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateCategory(c echo.Context) error {
	var req AdminCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.categoryUC.UpdateCategory(c.Request().Context(), c.Param("id"), toCategoryInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteCategory(c echo.Context) error {
	if err := h.categoryUC.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toAdminProductInput(req AdminProductRequest) usecase.AdminProductInput {
	return usecase.AdminProductInput{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}
}

func toCategoryInput(req AdminCategoryRequest) usecase.CategoryInput {
	return usecase.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		ImageURL:    req.ImageURL,
	}
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	userID, ok := raw.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
