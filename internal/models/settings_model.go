package models

import "time"

// Settings is the single marketplace configuration document. It is stored in
// Firestore so values survive restarts.
type Settings struct {
	AutoApproval       bool      `json:"autoApproval" firestore:"autoApproval"`
	MaxTemplateSize    string    `json:"maxTemplateSize" firestore:"maxTemplateSize"`
	CommissionRate     string    `json:"commissionRate" firestore:"commissionRate"`
	EmailNotifications bool      `json:"emailNotifications" firestore:"emailNotifications"`
	MaintenanceMode    bool      `json:"maintenanceMode" firestore:"maintenanceMode"`
	UpdatedAt          time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// DefaultSettings returns the values seeded on first read.
func DefaultSettings() *Settings {
	return &Settings{
		AutoApproval:       false,
		MaxTemplateSize:    "50MB",
		CommissionRate:     "15%",
		EmailNotifications: true,
		MaintenanceMode:    false,
	}
}
