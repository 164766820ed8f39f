package model

import "encoding/json"

// DefaultAuthor is assigned to blog posts created without an author.
const DefaultAuthor = "TechResona Team"

// SEOSettings holds per-page metadata injected into rendered pages. Page is
// unique within the `seo_settings` collection.
type SEOSettings struct {
	ID          string          `json:"id"`
	Page        string          `json:"page"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Keywords    *string         `json:"keywords"`
	OGImage     *string         `json:"og_image"`
	JSONLD      json.RawMessage `json:"json_ld"`
	UpdatedAt   Timestamp       `json:"updated_at"`
}

// RobotsTxt is the stored robots.txt override. At most one row is live.
type RobotsTxt struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// Blog is a post in the `blogs` collection, addressed by its unique slug.
type Blog struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Excerpt         string    `json:"excerpt"`
	Content         string    `json:"content"`
	Keywords        string    `json:"keywords"`
	MetaDescription string    `json:"meta_description"`
	Author          string    `json:"author"`
	Published       bool      `json:"published"`
	FeaturedImage   *string   `json:"featured_image"`
	CreatedAt       Timestamp `json:"created_at"`
	UpdatedAt       Timestamp `json:"updated_at"`
}

// BlogPatch carries a partial blog update. Nil fields are left untouched;
// omitempty keeps them out of the stored patch. An empty FeaturedImage
// removes the image.
type BlogPatch struct {
	Title           *string    `json:"title,omitempty"`
	Excerpt         *string    `json:"excerpt,omitempty"`
	Content         *string    `json:"content,omitempty"`
	Keywords        *string    `json:"keywords,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	Published       *bool      `json:"published,omitempty"`
	FeaturedImage   *string    `json:"featured_image,omitempty"`
	UpdatedAt       *Timestamp `json:"updated_at,omitempty"`
}

// Keyword is a tracked search keyword.
type Keyword struct {
	ID           string    `json:"id"`
	Keyword      string    `json:"keyword"`
	Page         string    `json:"page"`
	Ranking      *int      `json:"ranking"`
	SearchVolume *int      `json:"search_volume"`
	Difficulty   *string   `json:"difficulty"`
	TrackedAt    Timestamp `json:"tracked_at"`
}

// Contact submission statuses.
const (
	ContactStatusNew       = "new"
	ContactStatusContacted = "contacted"
	ContactStatusClosed    = "closed"
)

// ContactSubmission is a message left through the public contact form.
type ContactSubmission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     *string   `json:"company"`
	Phone       *string   `json:"phone"`
	Message     string    `json:"message"`
	SubmittedAt Timestamp `json:"submitted_at"`
	Status      string    `json:"status"`
}

// Logo is one entry of the append-only upload history. The file itself
// always lives at Path and is overwritten by every upload.
type Logo struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  Timestamp `json:"uploaded_at"`
	Path        string    `json:"path"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
}

// Analytics is the admin dashboard summary.
type Analytics struct {
	TotalPages    int64    `json:"total_pages"`
	TotalBlogs    int64    `json:"total_blogs"`
	TotalKeywords int64    `json:"total_keywords"`
	RecentUpdates []string `json:"recent_updates"`
}
