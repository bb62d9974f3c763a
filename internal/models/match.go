package models

// MatchRole selects which side of the relationship candidates are
// scored for.
type MatchRole string

const (
	MatchRoleMentor MatchRole = "mentor" // candidates who can teach what the caller wants to learn
	MatchRoleMentee MatchRole = "mentee" // candidates who want to learn what the caller teaches
)

// Valid reports whether the role is one of the two supported values
func (r MatchRole) Valid() bool {
	return r == MatchRoleMentor || r == MatchRoleMentee
}

// Candidate is a scored match candidate returned by the matching engine.
// Candidates are ordered by score descending, with ties broken by
// ascending user id so results are stable across calls.
type Candidate struct {
	User                 User     `json:"user"`
	Score                float64  `json:"score"`
	SharedSkills         []Skill  `json:"shared_skills"`
	LocationMatch        bool     `json:"location_match"`
	InPersonMatch        bool     `json:"in_person_match"`
	AvailabilityConflict float64  `json:"availability_conflict"`
	Explanation          []string `json:"explanation,omitempty"`
}

// MatchListResponse wraps a scored candidate list
type MatchListResponse struct {
	Role       MatchRole   `json:"role"`
	Candidates []Candidate `json:"candidates"`
	Count      int         `json:"count"`
}

// GenerateSuggestionsRequest asks the engine to persist suggestions for
// the caller's top candidates.
type GenerateSuggestionsRequest struct {
	Role MatchRole `json:"role" binding:"required,oneof=mentor mentee"`
}
