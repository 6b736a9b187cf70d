package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/sahasuyana/booking-api/internal/model"
    "github.com/sahasuyana/booking-api/internal/repository"
)

// NewsStore is the persistence surface the news endpoints need.
type NewsStore interface {
    Create(ctx context.Context, n *model.News) error
    GetByID(ctx context.Context, id uint64) (*model.News, error)
    List(ctx context.Context, f repository.NewsFilter) ([]model.News, int, error)
    Update(ctx context.Context, n *model.News) (*model.News, error)
    UpdateStatus(ctx context.Context, id uint64, status string) (*model.News, error)
    Delete(ctx context.Context, id uint64) error
    Stats(ctx context.Context) (*repository.NewsStats, error)
}

// NewsHandler implements news CRUD: the public published feed, the
// authenticated management endpoints and the stats overview.
type NewsHandler struct {
    Repo NewsStore
}

// NewNewsHandler constructs a NewsHandler.
func NewNewsHandler(repo NewsStore) *NewsHandler {
    return &NewsHandler{Repo: repo}
}

// newsRequest mirrors the news editor form.
type newsRequest struct {
    Title       string          `json:"title"`
    Description string          `json:"description"`
    Content     string          `json:"content"`
    Category    string          `json:"category"`
    Image       model.NewsImage `json:"image"`
    Status      string          `json:"status"`
    Featured    bool            `json:"featured"`
    Tags        []string        `json:"tags"`
    Author      string          `json:"author"`
}

// parseFeatured reads the tri-state featured query parameter: absent
// means unfiltered.
func parseFeatured(c echo.Context) *bool {
    switch c.QueryParam("featured") {
    case "true":
        v := true
        return &v
    case "false":
        v := false
        return &v
    }
    return nil
}

// List handles GET /api/news with status, category, featured, page and
// limit parameters. This is the management view: drafts included, full
// body returned.
func (h *NewsHandler) List(c echo.Context) error {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    f := repository.NewsFilter{
        Status:   c.QueryParam("status"),
        Category: c.QueryParam("category"),
        Featured: parseFeatured(c),
        Page:     page,
        Limit:    limit,
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    items, total, err := h.Repo.List(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to list news"})
    }
    if f.Limit < 1 {
        f.Limit = 10
    }
    if f.Page < 1 {
        f.Page = 1
    }
    return c.JSON(http.StatusOK, echo.Map{
        "newsItems":   items,
        "totalPages":  (total + f.Limit - 1) / f.Limit,
        "currentPage": f.Page,
        "total":       total,
    })
}

// Published handles GET /api/news/published, the public feed. Only
// published items appear and the body content is omitted to keep list
// payloads small.
func (h *NewsHandler) Published(c echo.Context) error {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    f := repository.NewsFilter{
        Category:      c.QueryParam("category"),
        Featured:      parseFeatured(c),
        PublishedOnly: true,
        WithoutBody:   true,
        Page:          page,
        Limit:         limit,
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    items, total, err := h.Repo.List(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to list news"})
    }
    if f.Limit < 1 {
        f.Limit = 10
    }
    if f.Page < 1 {
        f.Page = 1
    }
    return c.JSON(http.StatusOK, echo.Map{
        "newsItems":   items,
        "totalPages":  (total + f.Limit - 1) / f.Limit,
        "currentPage": f.Page,
        "total":       total,
    })
}

// Get handles GET /api/news/:id.
func (h *NewsHandler) Get(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid news id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    n, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNewsNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "News item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch news item"})
    }
    return c.JSON(http.StatusOK, n)
}

// Create handles POST /api/news. New items default to draft so nothing
// reaches the public feed before an explicit publish.
func (h *NewsHandler) Create(c echo.Context) error {
    var req newsRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    missing := []string{}
    if req.Title == "" {
        missing = append(missing, "title")
    }
    if req.Description == "" {
        missing = append(missing, "description")
    }
    if req.Content == "" {
        missing = append(missing, "content")
    }
    if req.Category == "" {
        missing = append(missing, "category")
    }
    if len(missing) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "message":  "Missing required fields",
            "required": missing,
        })
    }
    if !model.ValidNewsCategory(req.Category) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown category"})
    }
    status := req.Status
    if status == "" {
        status = model.NewsDraft
    }
    if !model.ValidNewsStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid status value"})
    }
    author := req.Author
    if author == "" {
        author = "Admin"
    }

    n := &model.News{
        Title:       req.Title,
        Description: req.Description,
        Content:     req.Content,
        Category:    req.Category,
        Image:       req.Image,
        Status:      status,
        Featured:    req.Featured,
        Tags:        req.Tags,
        Author:      author,
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Repo.Create(ctx, n); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create news item"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message": "News item created successfully",
        "news":    n,
    })
}

// Update handles PUT /api/news/:id.
func (h *NewsHandler) Update(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid news id"})
    }
    var req newsRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    n, err := h.Repo.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNewsNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "News item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch news item"})
    }

    if req.Title != "" {
        n.Title = req.Title
    }
    if req.Description != "" {
        n.Description = req.Description
    }
    if req.Content != "" {
        n.Content = req.Content
    }
    if req.Category != "" {
        if !model.ValidNewsCategory(req.Category) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown category"})
        }
        n.Category = req.Category
    }
    if req.Image.URL != "" || req.Image.Alt != "" {
        n.Image = req.Image
    }
    if req.Author != "" {
        n.Author = req.Author
    }
    n.Featured = req.Featured
    if req.Tags != nil {
        n.Tags = req.Tags
    }

    saved, err := h.Repo.Update(ctx, n)
    if err != nil {
        if errors.Is(err, repository.ErrNewsNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "News item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update news item"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "News item updated successfully",
        "news":    saved,
    })
}

// UpdateStatus handles PATCH /api/news/:id/status. The first transition
// to published stamps publishedAt; later republishing keeps the
// original timestamp.
func (h *NewsHandler) UpdateStatus(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid news id"})
    }
    var req struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    if !model.ValidNewsStatus(req.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid status value"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    n, err := h.Repo.UpdateStatus(ctx, id, req.Status)
    if err != nil {
        if errors.Is(err, repository.ErrNewsNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "News item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update news status"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "News status updated successfully",
        "news":    n,
    })
}

// Delete handles DELETE /api/news/:id.
func (h *NewsHandler) Delete(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid news id"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if err := h.Repo.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNewsNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "News item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete news item"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "News item deleted successfully"})
}

// Stats handles GET /api/news/stats/overview.
func (h *NewsHandler) Stats(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    s, err := h.Repo.Stats(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to compute stats"})
    }
    return c.JSON(http.StatusOK, s)
}
