package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cosechaencope/marketplace/internal/core/ports"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	categories ports.CategoryService
	articles   ports.ArticleService
}

func NewCategoryHandler(categories ports.CategoryService, articles ports.ArticleService) *CategoryHandler {
	return &CategoryHandler{categories: categories, articles: articles}
}

// List handles GET /categorias.
//
// @Summary      List all categories
// @Tags         categorias
// @Produce      json
// @Success      200  {array}  categoryResponse
// @Router       /categorias [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /categorias/:id.
//
// @Summary      Get a category by id
// @Tags         categorias
// @Produce      json
// @Param        id   path      int  true  "Category id"
// @Success      200  {object}  categoryResponse
// @Failure      404  {object}  errorResponse
// @Router       /categorias/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	category, err := h.categories.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// ListArticles handles GET /categorias/:id/articulos.
//
// @Summary      List the articles in a category
// @Tags         categorias
// @Produce      json
// @Param        id   path     int  true  "Category id"
// @Success      200  {array}  articleResponse
// @Failure      404  {object} errorResponse
// @Router       /categorias/{id}/articulos [get]
func (h *CategoryHandler) ListArticles(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	articles, err := h.articles.ListByCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles))
}

// Create handles POST /categorias.
//
// @Summary      Create a category
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category fields"
// @Success      201   {object}  categoryResponse
// @Failure      403   {object}  errorResponse
// @Router       /categorias [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.categories.Create(c.Request().Context(), ports.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// Update handles PUT /categorias/:id.
//
// @Summary      Replace a category
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Category id"
// @Param        body  body      categoryRequest  true  "Category fields"
// @Success      200   {object}  categoryResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /categorias/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.categories.Update(c.Request().Context(), id, ports.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(category))
}

// Delete handles DELETE /categorias/:id.
//
// @Summary      Delete a category
// @Tags         categorias
// @Security     BearerAuth
// @Param        id  path  int  true  "Category id"
// @Success      204  "deleted"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /categorias/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.categories.Delete(c.Request().Context(), id, actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
