package model

import "time"

// News statuses. PublishedAt is stamped exactly once, the first time a
// news item transitions to published.
const (
    NewsDraft     = "draft"
    NewsPublished = "published"
    NewsArchived  = "archived"
)

// ValidNewsStatus reports whether s is a known news status.
func ValidNewsStatus(s string) bool {
    return s == NewsDraft || s == NewsPublished || s == NewsArchived
}

// NewsCategories is the closed list of accepted news categories.
var NewsCategories = []string{
    "Events", "Exhibitions", "Awards", "Announcements", "Community", "General",
}

// ValidNewsCategory reports whether c is an accepted category.
func ValidNewsCategory(c string) bool {
    for _, v := range NewsCategories {
        if v == c {
            return true
        }
    }
    return false
}

// NewsImage is the optional illustration attached to a news item.
type NewsImage struct {
    URL string `json:"url"`
    Alt string `json:"alt"`
}

// News is a published-content item shown on the public site and managed
// from the admin dashboard.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – headline, <= 200 chars.
//  Description – summary, <= 1000 chars.
//  Content     – full body (excluded from public list responses).
//  Category    – one of NewsCategories.
//  Image       – optional image URL and alt text.
//  Status      – draft / published / archived.
//  Featured    – pinned on the landing page when true.
//  Tags        – free-form labels, <= 50 chars each.
//  Author      – display name, defaults to "Admin".
//  PublishedAt – set once on first publish (nil while draft).
type News struct {
    ID          uint64     `json:"id"`
    Title       string     `json:"title"`
    Description string     `json:"description"`
    Content     string     `json:"content,omitempty"`
    Category    string     `json:"category"`
    Image       NewsImage  `json:"image"`
    Status      string     `json:"status"`
    Featured    bool       `json:"featured"`
    Tags        []string   `json:"tags"`
    Author      string     `json:"author"`
    PublishedAt *time.Time `json:"publishedAt,omitempty"`
    CreatedAt   time.Time  `json:"createdAt"`
    UpdatedAt   time.Time  `json:"updatedAt"`
}
