package models

import (
	"time"
)

// Role controls access to administrative operations
type Role string

const (
	RoleRegular Role = "regular"
	RoleAdmin   Role = "admin"
	RoleOwner   Role = "owner"
)

// IsAdmin returns true for roles allowed to manage the skill catalog
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleOwner
}

// AvailabilityWindow is a recurring weekly time window during which a user
// is available for sessions. Minutes are counted from local midnight.
type AvailabilityWindow struct {
	Day         int `json:"day" binding:"min=0,max=6"` // 0 = Sunday
	StartMinute int `json:"start_minute" binding:"min=0,max=1439"`
	EndMinute   int `json:"end_minute" binding:"min=1,max=1440"`
}

// Duration returns the window length in minutes. Malformed windows where
// the end does not come after the start count as zero.
func (w AvailabilityWindow) Duration() int {
	if w.EndMinute <= w.StartMinute {
		return 0
	}
	return w.EndMinute - w.StartMinute
}

// Overlap returns the number of overlapping minutes between two windows,
// or zero when they fall on different days or do not intersect.
func (w AvailabilityWindow) Overlap(other AvailabilityWindow) int {
	if w.Day != other.Day {
		return 0
	}

	start := w.StartMinute
	if other.StartMinute > start {
		start = other.StartMinute
	}
	end := w.EndMinute
	if other.EndMinute < end {
		end = other.EndMinute
	}

	if end <= start {
		return 0
	}
	return end - start
}

// User represents a platform member. The same user can act as a mentor
// and a mentee in different relationships.
type User struct {
	ID                    int64                `json:"id"`
	Email                 string               `json:"email"`
	Name                  string               `json:"name"`
	Role                  Role                 `json:"role"`
	Location              string               `json:"location"`
	PrefersInPerson       bool                 `json:"prefers_in_person"`
	Bio                   string               `json:"bio"`
	AvatarURL             string               `json:"avatar_url"`
	Availability          []AvailabilityWindow `json:"availability"`
	MentorSkills          []Skill              `json:"mentor_skills"`
	MenteeSkills          []Skill              `json:"mentee_skills"`
	OnboardingCompletedAt *time.Time           `json:"onboarding_completed_at,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// OnboardingComplete reports whether the user finished onboarding and
// is therefore visible to matching.
func (u *User) OnboardingComplete() bool {
	return u.OnboardingCompletedAt != nil
}

// UpdateProfileRequest is the payload for updating the caller's profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name            *string               `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Location        *string               `json:"location,omitempty" binding:"omitempty,max=100"`
	PrefersInPerson *bool                 `json:"prefers_in_person,omitempty"`
	Bio             *string               `json:"bio,omitempty" binding:"omitempty,max=2000"`
	Availability    *[]AvailabilityWindow `json:"availability,omitempty" binding:"omitempty,max=50,dive"`
	MentorSkillIDs  *[]int64              `json:"mentor_skill_ids,omitempty" binding:"omitempty,max=30"`
	MenteeSkillIDs  *[]int64              `json:"mentee_skill_ids,omitempty" binding:"omitempty,max=30"`
}

// UploadAvatarRequest is the payload for uploading a profile avatar
type UploadAvatarRequest struct {
	Image       string `json:"image" binding:"required"` // base64 or data URI
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// UploadAvatarResponse is returned after a successful avatar upload
type UploadAvatarResponse struct {
	Success   bool   `json:"success"`
	AvatarURL string `json:"avatar_url"`
}

// RegisterRequest is the payload for creating a new user account
type RegisterRequest struct {
	Email           string               `json:"email" binding:"required,email,max=255"`
	Name            string               `json:"name" binding:"required,min=1,max=100"`
	Location        string               `json:"location" binding:"max=100"`
	PrefersInPerson bool                 `json:"prefers_in_person"`
	Bio             string               `json:"bio" binding:"max=2000"`
	Availability    []AvailabilityWindow `json:"availability" binding:"max=50,dive"`
	MentorSkillIDs  []int64              `json:"mentor_skill_ids" binding:"max=30"`
	MenteeSkillIDs  []int64              `json:"mentee_skill_ids" binding:"max=30"`
}
