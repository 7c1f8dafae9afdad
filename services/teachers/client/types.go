package client

import "github.com/tutorhub/console/internal/dates"

// TeacherProfile is a tutor's public profile.
type TeacherProfile struct {
	ID           int64          `json:"id"`
	UserID       int64          `json:"userId"`
	FullName     string         `json:"fullName"`
	Email        string         `json:"email"`
	Subjects     []string       `json:"subjects"`
	Bio          string         `json:"bio,omitempty"`
	HourlyRate   float64        `json:"hourlyRate"`
	Rating       float64        `json:"rating"`
	Active       bool           `json:"active"`
	CreatedAt    dates.DateTime `json:"createdAt"`
	ProfileURL   string         `json:"profilePictureUrl,omitempty"`
	Experience   int            `json:"yearsOfExperience,omitempty"`
	StudentCount int            `json:"studentCount,omitempty"`
}
