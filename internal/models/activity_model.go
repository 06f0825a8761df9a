package models

import "time"

// Activity is one append-only audit entry. It drives the admin "recent
// activity" feed and per-user notifications.
type Activity struct {
	ID          string    `json:"id" firestore:"-"` // Document ID, auto-generated
	Description string    `json:"description" firestore:"description"`
	Actor       string    `json:"actor,omitempty" firestore:"actor,omitempty"` // Optional user doc ID; empty for system actions
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}
