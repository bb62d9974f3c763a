package models

import "time"

// Skill is a catalog entry users attach to their profiles, either as
// something they can teach or something they want to learn.
type Skill struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSkillRequest is the payload for adding a skill to the catalog
type CreateSkillRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// SkillListResponse wraps the full skill catalog
type SkillListResponse struct {
	Skills []Skill `json:"skills"`
	Count  int     `json:"count"`
}
