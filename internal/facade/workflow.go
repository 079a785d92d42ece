package facade

import (
	"context"
	"time"

	"github.com/karagozeren/akademiknet/internal/server"
	"github.com/karagozeren/akademiknet/internal/session"
)

// Summary condenses a combined run for tool output.
type Summary struct {
	Researcher         string  `json:"researcher"`
	SessionID          string  `json:"sessionId"`
	TotalProfiles      int     `json:"total_profiles"`
	TotalCollaborators int     `json:"total_collaborators"`
	ElapsedSeconds     float64 `json:"elapsed_seconds"`
}

// CombinedResult is the product of a search chained into collaborator
// expansion for one selected profile.
type CombinedResult struct {
	Search        *server.SearchResponse        `json:"search"`
	Selected      session.Profile               `json:"selected_profile"`
	Collaborators *server.CollaboratorsResponse `json:"collaborators"`
	Summary       Summary                       `json:"summary"`
}

// SearchAndCollaborators runs both phases in one call. researcherIndex
// picks which discovered profile to expand, zero-based; callers that
// don't care pass 0 for the first hit.
func (c *Client) SearchAndCollaborators(ctx context.Context, params SearchParams, researcherIndex int) (*CombinedResult, error) {
	started := time.Now()
	search, err := c.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if search.TotalProfiles == 0 {
		return nil, validationErr("no researchers found for %q", params.Name)
	}
	if researcherIndex < 0 || researcherIndex >= len(search.Profiles) {
		return nil, validationErr("researcher index %d out of range, search found %d profiles",
			researcherIndex, len(search.Profiles))
	}

	selected := search.Profiles[researcherIndex]
	collabs, err := c.Collaborators(ctx, search.SessionID, &selected.ID)
	if err != nil {
		return nil, err
	}

	return &CombinedResult{
		Search:        search,
		Selected:      selected,
		Collaborators: collabs,
		Summary: Summary{
			Researcher:         selected.Name,
			SessionID:          search.SessionID,
			TotalProfiles:      search.TotalProfiles,
			TotalCollaborators: collabs.TotalCollaborators,
			ElapsedSeconds:     time.Since(started).Seconds(),
		},
	}, nil
}
