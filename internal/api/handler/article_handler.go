package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cosechaencope/marketplace/internal/core/ports"
)

// ArticleHandler handles HTTP requests for the article catalogue.
type ArticleHandler struct {
	service ports.ArticleService
	images  ports.ImageStore
}

func NewArticleHandler(service ports.ArticleService, images ports.ImageStore) *ArticleHandler {
	return &ArticleHandler{service: service, images: images}
}

// List handles GET /articulos.
//
// @Summary      List all articles
// @Tags         articulos
// @Produce      json
// @Success      200  {array}  articleResponse
// @Router       /articulos [get]
func (h *ArticleHandler) List(c echo.Context) error {
	articles, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles))
}

// Get handles GET /articulos/:id.
//
// @Summary      Get an article by id
// @Tags         articulos
// @Produce      json
// @Param        id   path      int  true  "Article id"
// @Success      200  {object}  articleResponse
// @Failure      404  {object}  errorResponse
// @Router       /articulos/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	article, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

// Create handles POST /articulos.
//
// @Summary      Create an article
// @Tags         articulos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      articleRequest  true  "Article fields"
// @Success      201   {object}  articleResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /articulos [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	article, err := h.service.Create(c.Request().Context(), articleInput(req), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toArticleResponse(article))
}

// Update handles PUT /articulos/:id.
//
// @Summary      Replace an article
// @Tags         articulos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Article id"
// @Param        body  body      articleRequest  true  "Article fields"
// @Success      200   {object}  articleResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /articulos/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	article, err := h.service.Update(c.Request().Context(), id, articleInput(req), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

// Delete handles DELETE /articulos/:id.
//
// @Summary      Delete an article
// @Tags         articulos
// @Security     BearerAuth
// @Param        id  path  int  true  "Article id"
// @Success      204  "deleted"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /articulos/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage handles POST /articulos/:id/imagen (multipart form, field "imagen").
//
// @Summary      Upload an article image
// @Tags         articulos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int   true  "Article id"
// @Param        imagen  formData  file  true  "Image file"
// @Success      200     {object}  articleResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /articulos/{id}/imagen [post]
func (h *ArticleHandler) UploadImage(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	file, err := c.FormFile("imagen")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing imagen file field")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer src.Close()

	article, err := h.service.AttachImage(c.Request().Context(), id, file.Filename, src, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

// GetImage handles GET /articulos/:id/imagen, streaming the stored image.
//
// @Summary      Download an article image
// @Tags         articulos
// @Produce      octet-stream
// @Param        id  path  int  true  "Article id"
// @Success      200  "image bytes"
// @Failure      404  {object}  errorResponse
// @Router       /articulos/{id}/imagen [get]
func (h *ArticleHandler) GetImage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	article, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if article.ImageURL == "" {
		return echo.NewHTTPError(http.StatusNotFound, "article has no image")
	}

	// Buffer before writing the header so a missing or unreadable blob still
	// reaches the error handler as a clean 404 instead of a committed 200.
	var buf bytes.Buffer
	if err := h.images.Open(c.Request().Context(), imageName(article.ImageURL), &buf); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/octet-stream", buf.Bytes())
}

// ListByProducer handles GET /usuarios/productores/:idProductor/articulos.
//
// @Summary      List a producer's articles
// @Tags         productores
// @Produce      json
// @Security     BearerAuth
// @Param        idProductor  path      int  true  "Producer user id"
// @Success      200          {array}   articleResponse
// @Router       /usuarios/productores/{idProductor}/articulos [get]
func (h *ArticleHandler) ListByProducer(c echo.Context) error {
	producerID, err := pathID(c, "idProductor")
	if err != nil {
		return err
	}

	articles, err := h.service.ListByProducer(c.Request().Context(), producerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles))
}

func articleInput(req articleRequest) ports.ArticleInput {
	return ports.ArticleInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// imageName recovers the stored object name from a /media/... URL.
func imageName(url string) string {
	for i := len(url) - 1; i >= 0; i-- {
		if url[i] == '/' {
			return url[i+1:]
		}
	}
	return url
}
