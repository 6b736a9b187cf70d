package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/sahasuyana/booking-api/internal/model"
)

// NewsRepo persists news items. Tags are stored as a comma-separated
// column; the list endpoints never need to query inside them.
type NewsRepo struct {
    DB *sql.DB
}

// NewNewsRepo returns a NewsRepo bound to the given database.
func NewNewsRepo(db *sql.DB) *NewsRepo { return &NewsRepo{DB: db} }

const newsColumns = `id, title, description, content, category,
       image_url, image_alt, status, featured, tags, author,
       published_at, created_at, updated_at`

// scanNews reads one news row. The content column can be omitted from a
// query by selecting '' in its place (public list views drop the body).
func scanNews(s rowScanner) (*model.News, error) {
    var n model.News
    var tags sql.NullString
    var publishedAt sql.NullTime
    err := s.Scan(
        &n.ID, &n.Title, &n.Description, &n.Content, &n.Category,
        &n.Image.URL, &n.Image.Alt, &n.Status, &n.Featured, &tags, &n.Author,
        &publishedAt, &n.CreatedAt, &n.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    n.Tags = splitTags(tags.String)
    if publishedAt.Valid {
        t := publishedAt.Time
        n.PublishedAt = &t
    }
    return &n, nil
}

func splitTags(s string) []string {
    if s == "" {
        return []string{}
    }
    parts := strings.Split(s, ",")
    tags := make([]string, 0, len(parts))
    for _, p := range parts {
        if p = strings.TrimSpace(p); p != "" {
            tags = append(tags, p)
        }
    }
    return tags
}

func joinTags(tags []string) string { return strings.Join(tags, ",") }

// Create inserts the news item and populates its ID and timestamps.
func (r *NewsRepo) Create(ctx context.Context, n *model.News) error {
    const q = `INSERT INTO news
        (title, description, content, category, image_url, image_alt,
         status, featured, tags, author)
        VALUES (?,?,?,?,?,?,?,?,?,?)`
    res, err := r.DB.ExecContext(ctx, q,
        n.Title, n.Description, n.Content, n.Category, n.Image.URL, n.Image.Alt,
        n.Status, n.Featured, joinTags(n.Tags), n.Author)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    n.ID = uint64(id)
    saved, err := r.GetByID(ctx, n.ID)
    if err != nil {
        return err
    }
    *n = *saved
    return nil
}

// GetByID returns one news item or ErrNewsNotFound.
func (r *NewsRepo) GetByID(ctx context.Context, id uint64) (*model.News, error) {
    n, err := scanNews(r.DB.QueryRowContext(ctx,
        `SELECT `+newsColumns+` FROM news WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrNewsNotFound
    }
    return n, err
}

// NewsFilter narrows and pages the news list. Featured is a tri-state:
// nil leaves it unfiltered.
type NewsFilter struct {
    Status        string
    Category      string
    Featured      *bool
    PublishedOnly bool
    WithoutBody   bool // drop the content column for list views
    Page          int
    Limit         int
}

// List returns a page of news items plus the total count. Published
// items sort by publish date, everything else by creation date, both
// newest first.
func (r *NewsRepo) List(ctx context.Context, f NewsFilter) ([]model.News, int, error) {
    if f.Page < 1 {
        f.Page = 1
    }
    if f.Limit < 1 {
        f.Limit = 10
    }
    where := "1=1"
    args := []interface{}{}
    if f.PublishedOnly {
        where += " AND status = ?"
        args = append(args, model.NewsPublished)
    } else if f.Status != "" {
        where += " AND status = ?"
        args = append(args, f.Status)
    }
    if f.Category != "" {
        where += " AND category = ?"
        args = append(args, f.Category)
    }
    if f.Featured != nil {
        where += " AND featured = ?"
        args = append(args, *f.Featured)
    }
    var total int
    if err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM news WHERE `+where, args...).Scan(&total); err != nil {
        return nil, 0, err
    }
    cols := newsColumns
    if f.WithoutBody {
        cols = strings.Replace(cols, "content,", "'' AS content,", 1)
    }
    listArgs := append(args, f.Limit, (f.Page-1)*f.Limit)
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+cols+` FROM news WHERE `+where+
            ` ORDER BY published_at DESC, created_at DESC LIMIT ? OFFSET ?`, listArgs...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    items := make([]model.News, 0)
    for rows.Next() {
        n, err := scanNews(rows)
        if err != nil {
            return nil, 0, err
        }
        items = append(items, *n)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return items, total, nil
}

// Update rewrites the mutable fields and, when the status first moves to
// published, stamps published_at exactly once.
func (r *NewsRepo) Update(ctx context.Context, n *model.News) (*model.News, error) {
    const q = `UPDATE news SET
        title = ?, description = ?, content = ?, category = ?,
        image_url = ?, image_alt = ?, status = ?, featured = ?, tags = ?,
        published_at = CASE WHEN ? = 'published' AND published_at IS NULL THEN ? ELSE published_at END,
        updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`
    res, err := r.DB.ExecContext(ctx, q,
        n.Title, n.Description, n.Content, n.Category,
        n.Image.URL, n.Image.Alt, n.Status, n.Featured, joinTags(n.Tags),
        n.Status, time.Now().UTC(), n.ID)
    if err != nil {
        return nil, err
    }
    if affected, _ := res.RowsAffected(); affected == 0 {
        if _, err := r.GetByID(ctx, n.ID); err != nil {
            return nil, err
        }
    }
    return r.GetByID(ctx, n.ID)
}

// UpdateStatus changes only the status, stamping published_at on the
// first publish.
func (r *NewsRepo) UpdateStatus(ctx context.Context, id uint64, status string) (*model.News, error) {
    const q = `UPDATE news SET status = ?,
        published_at = CASE WHEN ? = 'published' AND published_at IS NULL THEN ? ELSE published_at END,
        updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`
    res, err := r.DB.ExecContext(ctx, q, status, status, time.Now().UTC(), id)
    if err != nil {
        return nil, err
    }
    if affected, _ := res.RowsAffected(); affected == 0 {
        if _, err := r.GetByID(ctx, id); err != nil {
            return nil, err
        }
    }
    return r.GetByID(ctx, id)
}

// Delete removes the news item permanently.
func (r *NewsRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNewsNotFound
    }
    return nil
}

// CategoryStat is one row of the per-category rollup.
type CategoryStat struct {
    Category string `json:"category"`
    Count    int    `json:"count"`
}

// NewsStats aggregates counts for the dashboard overview.
type NewsStats struct {
    TotalNews     int            `json:"totalNews"`
    PublishedNews int            `json:"publishedNews"`
    DraftNews     int            `json:"draftNews"`
    FeaturedNews  int            `json:"featuredNews"`
    CategoryStats []CategoryStat `json:"categoryStats"`
}

// Stats computes the news overview.
func (r *NewsRepo) Stats(ctx context.Context) (*NewsStats, error) {
    s := &NewsStats{CategoryStats: []CategoryStat{}}
    err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*),
        COALESCE(SUM(status = 'published'), 0),
        COALESCE(SUM(status = 'draft'), 0),
        COALESCE(SUM(featured), 0)
        FROM news`).Scan(&s.TotalNews, &s.PublishedNews, &s.DraftNews, &s.FeaturedNews)
    if err != nil {
        return nil, err
    }
    rows, err := r.DB.QueryContext(ctx, `SELECT category, COUNT(*) FROM news GROUP BY category`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var cs CategoryStat
        if err := rows.Scan(&cs.Category, &cs.Count); err != nil {
            return nil, err
        }
        s.CategoryStats = append(s.CategoryStats, cs)
    }
    return s, rows.Err()
}
