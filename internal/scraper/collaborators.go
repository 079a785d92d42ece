package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/karagozeren/akademiknet/internal/session"
)

// Expansion runs phase 2: enumerate the collaborator graph of one
// profile and resolve each node into a full record. Individual node
// failures degrade that record only; the run never aborts for one bad
// node.
type Expansion struct {
	Store  *session.Store
	Source GraphSource
	Log    *log.Logger

	// Pause between node resolutions, so snapshot readers observe
	// progressive growth rather than one burst.
	Pause        time.Duration
	DefaultPhoto string
}

// Run expands the graph for profileURL. The done marker is written only
// when the final set is non-empty: an attempted-but-empty expansion
// deliberately never signals completion.
func (e *Expansion) Run(ctx context.Context, name, sessionID, profileURL string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("expansion: session id required")
	}
	if e.Log == nil {
		e.Log = log.New(log.Writer(), "[WORKER] ", log.LstdFlags)
	}

	nodes, err := e.Source.Nodes(ctx, profileURL)
	if err != nil {
		return fmt.Errorf("expansion: %w", err)
	}
	e.Log.Printf("graph for %q has %d collaborator nodes", name, len(nodes))

	var collaborators []session.Collaborator
	for i, node := range nodes {
		c := e.resolve(ctx, i+1, node)
		collaborators = append(collaborators, c)

		if err := e.Store.WriteCollaborators(sessionID, collaborators); err != nil {
			return fmt.Errorf("expansion: %w", err)
		}
		if e.Pause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.Pause):
			}
		}
	}

	if len(collaborators) == 0 {
		e.Log.Printf("no collaborators resolved, leaving session unmarked")
		return nil
	}
	if err := e.Store.MarkCollabDone(sessionID); err != nil {
		return fmt.Errorf("expansion: %w", err)
	}
	e.Log.Printf("resolved %d collaborators", len(collaborators))
	return nil
}

// resolve turns one graph node into a collaborator record. Nodes
// without a link target, and nodes whose page lost its profile block,
// are marked deleted with the link dropped.
func (e *Expansion) resolve(ctx context.Context, id int, node GraphNode) session.Collaborator {
	c := session.Collaborator{
		ID:     id,
		Name:   node.Name,
		Status: "completed",
	}
	if node.Href == "" {
		c.Deleted = true
		c.PhotoURL = e.DefaultPhoto
		return c
	}

	detail, err := e.Source.Detail(ctx, node.Href)
	if err != nil {
		// Degrade this record, keep the batch going.
		e.Log.Printf("collaborator %d (%s) detail failed: %v", id, node.Name, err)
		c.URL = node.Href
		c.PhotoURL = e.DefaultPhoto
		return c
	}
	if detail.Missing {
		c.Deleted = true
		c.PhotoURL = e.DefaultPhoto
		return c
	}

	c.URL = node.Href
	c.Title = detail.Title
	c.Info = detail.Info
	c.GreenLabel = detail.GreenLabel
	c.BlueLabel = detail.BlueLabel
	c.Keywords = detail.Keywords
	c.Email = detail.Email
	c.PhotoURL = detail.PhotoURL
	if c.PhotoURL == "" {
		c.PhotoURL = e.DefaultPhoto
	}
	return c
}
