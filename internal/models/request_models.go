package models

// RegisterRequest is the body of POST /api/auth/register.
// Role may be buyer or seller; admin accounts are never self-assigned.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// FirebaseLoginRequest carries the Firebase ID token to exchange for a local
// session token. The token is verified server side with the Admin SDK;
// client-supplied uid/email values are never trusted.
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// UpdateProfileRequest is the body of PUT /api/users/me. Pointers distinguish
// "clear this field" from "not provided". Only these fields are writable.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
	Website  *string `json:"website,omitempty"`
	Twitter  *string `json:"twitter,omitempty"`
	Github   *string `json:"github,omitempty"`
}

// AddCartRequest is the body of POST /api/users/cart/add.
type AddCartRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
}

// UpdateCartRequest is the body of PUT /api/users/cart.
type UpdateCartRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
	Quantity   *int   `json:"quantity" binding:"required"`
}

// UpdateTemplateRequest is the body of PUT /api/templates/:id. Direct field
// mutation regardless of review state; list fields replace the stored lists.
type UpdateTemplateRequest struct {
	Title          *string   `json:"title,omitempty"`
	Description    *string   `json:"description,omitempty"`
	EstimatedPrice *float64  `json:"estimatedPrice,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Framework      *string   `json:"framework,omitempty"`
	Platform       *string   `json:"platform,omitempty"`
	Theme          *string   `json:"theme,omitempty"`
	GithubRepo     *string   `json:"githubRepo,omitempty"`
	LiveLink       *string   `json:"liveLink,omitempty"`
	CodePreview    *string   `json:"codePreview,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	Features       *[]string `json:"features,omitempty"`
	TechStack      *[]string `json:"techStack,omitempty"`
	IsFeatured     *bool     `json:"isFeatured,omitempty"`
	IsFree         *bool     `json:"isFree,omitempty"`
}

// SetColorRequest is the body of PUT /api/templates/:id/color.
type SetColorRequest struct {
	Color string `json:"color" binding:"required"`
}

// UpdateSettingRequest is the body of PUT /api/admin/settings/:key. Value may
// arrive as a bool or as the strings "true"/"false" for boolean settings.
type UpdateSettingRequest struct {
	Value interface{} `json:"value" binding:"required"`
}
