package models

import "time"

// TemplateStatus is the review lifecycle state of a template.
type TemplateStatus string

const (
	StatusPending  TemplateStatus = "pending"
	StatusApproved TemplateStatus = "approved"
	StatusRejected TemplateStatus = "rejected"
)

// Upload types accepted for a template submission.
const (
	UploadTypeGithub = "github"
	UploadTypeZip    = "zip"
)

// Quality badge colors an admin may assign. The named aliases are what the
// dashboard sends; the hex values are what gets stored.
var BadgeColors = map[string]string{
	"gold":    "#FFD700",
	"blue":    "#4169E1",
	"green":   "#50C878",
	"orange":  "#FFA500",
	"#FFD700": "#FFD700",
	"#4169E1": "#4169E1",
	"#50C878": "#50C878",
	"#FFA500": "#FFA500",
}

// Template represents a purchasable code-project listing.
type Template struct {
	ID             string         `json:"id" firestore:"-"` // Document ID, auto-generated
	Title          string         `json:"title" firestore:"title"`
	Description    string         `json:"description" firestore:"description"`
	EstimatedPrice float64        `json:"estimatedPrice" firestore:"estimatedPrice"`
	Category       string         `json:"category,omitempty" firestore:"category,omitempty"`
	Framework      string         `json:"framework,omitempty" firestore:"framework,omitempty"`
	Platform       string         `json:"platform,omitempty" firestore:"platform,omitempty"`
	Theme          string         `json:"theme,omitempty" firestore:"theme,omitempty"`
	GithubRepo     string         `json:"githubRepo,omitempty" firestore:"githubRepo,omitempty"`
	UploadType     string         `json:"uploadType" firestore:"uploadType"`
	ZipFileURL     string         `json:"zipFileUrl,omitempty" firestore:"zipFileUrl,omitempty"`
	PreviewImage   string         `json:"previewImageUrl,omitempty" firestore:"previewImageUrl,omitempty"`
	LiveLink       string         `json:"liveLink,omitempty" firestore:"liveLink,omitempty"`
	CodePreview    string         `json:"codePreview,omitempty" firestore:"codePreview,omitempty"`
	Tags           []string       `json:"tags" firestore:"tags"`
	Features       []string       `json:"features" firestore:"features"`
	TechStack      []string       `json:"techStack" firestore:"techStack"`
	Color          string         `json:"color,omitempty" firestore:"color,omitempty"`
	Status         TemplateStatus `json:"status" firestore:"status"`
	Sales          int64          `json:"sales" firestore:"sales"`
	IsFeatured     bool           `json:"isFeatured" firestore:"isFeatured"`
	IsFree         bool           `json:"isFree" firestore:"isFree"`
	UploadedBy     string         `json:"uploadedBy" firestore:"uploadedBy"` // Owning user's document ID
	CreatedAt      time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt" firestore:"updatedAt"`
}

// Free reports whether the template counts as free for seller stats. Both
// the explicit flag and a zero price qualify.
func (t *Template) Free() bool {
	return t.IsFree || t.EstimatedPrice == 0
}
