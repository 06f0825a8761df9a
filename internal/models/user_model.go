package models

import "time"

// Role is the closed set of account roles. Permission checks live here so a
// route never has to inspect the role string itself.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller || r == RoleAdmin
}

// CanUpload reports whether the role may submit templates for review.
func (r Role) CanUpload() bool { return r == RoleSeller || r == RoleAdmin }

// CanReview reports whether the role may approve or reject templates.
func (r Role) CanReview() bool { return r == RoleAdmin }

// CanManageUsers reports whether the role may ban/unban accounts.
func (r Role) CanManageUsers() bool { return r == RoleAdmin }

// UserStatus is the account standing.
type UserStatus string

const (
	UserActive UserStatus = "active"
	UserBanned UserStatus = "banned"
)

// CartItem is one entry of a user's embedded cart.
// Quantity is never below 1; entries are unique per template.
type CartItem struct {
	TemplateID string `json:"templateId" firestore:"templateId"`
	Quantity   int    `json:"quantity" firestore:"quantity"`
}

// User represents a marketplace account. The password hash is never
// serialized to clients.
type User struct {
	ID           string     `json:"id" firestore:"-"` // Document ID
	Username     string     `json:"username" firestore:"username"`
	Email        string     `json:"email" firestore:"email"`
	PasswordHash string     `json:"-" firestore:"passwordHash,omitempty"`
	FirebaseUID  string     `json:"firebaseUid,omitempty" firestore:"firebaseUid,omitempty"`
	Role         Role       `json:"role" firestore:"role"`
	Status       UserStatus `json:"status" firestore:"status"`

	Bio      string `json:"bio" firestore:"bio"`
	Location string `json:"location" firestore:"location"`
	Website  string `json:"website" firestore:"website"`
	Twitter  string `json:"twitter" firestore:"twitter"`
	Github   string `json:"github" firestore:"github"`

	Rating      float64 `json:"rating" firestore:"rating"`
	ReviewCount int     `json:"reviewCount" firestore:"reviewCount"`

	Cart []CartItem `json:"cart" firestore:"cart"`

	// Seller aggregates, applied at most once per qualifying transition.
	Templates     []string `json:"templates" firestore:"templates"` // Approved template doc IDs
	Earnings      float64  `json:"earnings" firestore:"earnings"`
	Sales         int64    `json:"sales" firestore:"sales"`
	FreeTemplates int64    `json:"freeTemplates" firestore:"freeTemplates"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// OwnsTemplate reports whether the template ID is already in the user's
// approved list.
func (u *User) OwnsTemplate(templateID string) bool {
	for _, id := range u.Templates {
		if id == templateID {
			return true
		}
	}
	return false
}

// CartEntry is a populated cart row returned to clients: the stored item
// joined with its template document.
type CartEntry struct {
	Template *Template `json:"template"`
	Quantity int       `json:"quantity"`
}

// UserProfile is the /users/me payload: the account plus its template
// listings split by review state.
type UserProfile struct {
	ID               string      `json:"id"`
	Username         string      `json:"username"`
	Email            string      `json:"email"`
	Role             Role        `json:"role"`
	Bio              string      `json:"bio"`
	Location         string      `json:"location"`
	Website          string      `json:"website"`
	Twitter          string      `json:"twitter"`
	Github           string      `json:"github"`
	Rating           float64     `json:"rating"`
	ReviewCount      int         `json:"reviewCount"`
	JoinDate         time.Time   `json:"joinDate"`
	PublicTemplates  []*Template `json:"publicTemplates"`
	PendingTemplates []*Template `json:"pendingTemplates"`
	Cart             []CartEntry `json:"cart"`
}
