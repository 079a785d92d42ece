package server

import "github.com/karagozeren/akademiknet/internal/session"

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email,omitempty"`
	FieldID      int      `json:"field_id,omitempty"`
	SpecialtyIDs []string `json:"specialty_ids,omitempty"`
}

// SearchResponse carries the discovered profile set. Collaborators is
// only present on the single-match fast path, and is always empty
// there: phase 2 has been launched but not waited on.
type SearchResponse struct {
	Success       bool                   `json:"success"`
	SessionID     string                 `json:"sessionId"`
	Profiles      []session.Profile      `json:"profiles"`
	TotalProfiles int                    `json:"total_profiles"`
	Collaborators []session.Collaborator `json:"collaborators,omitempty"`
	Warning       string                 `json:"warning,omitempty"`
}

// CollaboratorsRequest is the body of POST /api/collaborators/:sessionId.
type CollaboratorsRequest struct {
	ProfileID *int `json:"profileId,omitempty"`
}

// CollaboratorsResponse answers the blocking POST variant.
type CollaboratorsResponse struct {
	Success            bool                   `json:"success"`
	SessionID          string                 `json:"sessionId"`
	Profile            *session.Profile       `json:"profile,omitempty"`
	Collaborators      []session.Collaborator `json:"collaborators"`
	TotalCollaborators int                    `json:"total_collaborators"`
	Completed          bool                   `json:"completed"`
}

// CollaboratorsStateResponse answers the read-only GET variant.
type CollaboratorsStateResponse struct {
	Success            bool                   `json:"success"`
	Collaborators      []session.Collaborator `json:"collaborators"`
	TotalCollaborators int                    `json:"total_collaborators"`
	Completed          bool                   `json:"completed"`
	Status             string                 `json:"status"`
	Timestamp          string                 `json:"timestamp"`
}
