package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/karagozeren/akademiknet/internal/launcher"
	"github.com/karagozeren/akademiknet/internal/session"
)

// DiscoveryParams are the inputs of one profile discovery run. Email,
// Field and Specialties are post-filters over the name search, not
// extra query parameters sent to the site.
type DiscoveryParams struct {
	Name        string
	SessionID   string
	Email       string
	Field       string
	Specialties []string
}

// Discovery runs phase 1: walk the search results, filter, dedup by
// profile URL, and publish snapshots into the session store. In email
// mode it scans lightly until the address matches, then short-circuits
// into phase 2.
type Discovery struct {
	Store    *session.Store
	Source   SearchSource
	Launcher launcher.Launcher
	Log      *log.Logger

	MaxProfiles  int
	MaxEmailScan int
	MaxPages     int
}

// Run executes the discovery. The done marker is written only when at
// least one profile was captured; a zero-result run leaves the session
// without a marker and callers rely on their own wall-clock bound.
func (d *Discovery) Run(ctx context.Context, p DiscoveryParams) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("discovery: name required")
	}
	if strings.TrimSpace(p.SessionID) == "" {
		return fmt.Errorf("discovery: session id required")
	}
	if d.Log == nil {
		d.Log = log.New(log.Writer(), "[WORKER] ", log.LstdFlags)
	}

	if err := d.Source.Open(ctx, p.Name); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}

	emailMode := strings.TrimSpace(p.Email) != ""
	var profiles []session.Profile
	seen := make(map[string]bool)
	scanned := 0
	nextID := 1

pages:
	for page := 1; page <= d.MaxPages; page++ {
		rows, err := d.Source.Rows(ctx)
		if err != nil {
			d.Log.Printf("page %d unreadable, stopping: %v", page, err)
			break
		}
		d.Log.Printf("page %d: %d rows", page, len(rows))
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			// Label check is cheap; full extraction happens only for
			// rows that pass the filters.
			if p.Field != "" && row.GreenLabel != p.Field {
				continue
			}
			if len(p.Specialties) > 0 && !containsString(p.Specialties, row.BlueLabel) {
				continue
			}
			if row.URL == "" || seen[row.URL] {
				continue
			}
			seen[row.URL] = true

			if emailMode {
				scanned++
				if strings.EqualFold(row.Email, p.Email) {
					d.Log.Printf("email match: %s <%s>", row.Name, row.Email)
					return d.finishEmailMatch(p, row, nextID)
				}
				if scanned >= d.MaxEmailScan {
					d.Log.Printf("scanned %d rows without an email match, giving up", scanned)
					break pages
				}
				continue
			}

			profiles = append(profiles, profileFromRow(nextID, row))
			nextID++
			if len(profiles) >= d.MaxProfiles {
				d.Log.Printf("profile cap %d reached", d.MaxProfiles)
				break pages
			}
		}

		// Idempotent snapshot after every page: a concurrent reader
		// always sees a self-consistent prefix.
		if len(profiles) > 0 {
			if err := d.Store.WriteProfiles(p.SessionID, profiles); err != nil {
				return fmt.Errorf("discovery: %w", err)
			}
		}

		more, err := d.Source.Next(ctx)
		if err != nil {
			d.Log.Printf("pagination stopped: %v", err)
			break
		}
		if !more {
			d.Log.Printf("last page reached")
			break
		}
	}

	if len(profiles) == 0 {
		d.Log.Printf("no profiles captured for %q", p.Name)
		return nil
	}
	if err := d.Store.WriteProfiles(p.SessionID, profiles); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if err := d.Store.MarkMainDone(p.SessionID); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	d.Log.Printf("captured %d profiles", len(profiles))
	return nil
}

// finishEmailMatch persists the single matching profile, marks the
// phase done and chains straight into collaborator expansion.
func (d *Discovery) finishEmailMatch(p DiscoveryParams, row ResultRow, id int) error {
	match := profileFromRow(id, row)
	if err := d.Store.WriteProfiles(p.SessionID, []session.Profile{match}); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if err := d.Store.MarkMainDone(p.SessionID); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if d.Launcher != nil {
		err := d.Launcher.LaunchCollaborators(launcher.CollabJob{
			Name:       match.Name,
			SessionID:  p.SessionID,
			ProfileURL: match.URL,
		})
		if err != nil {
			d.Log.Printf("collaborator launch failed: %v", err)
		}
	}
	return nil
}

func profileFromRow(id int, row ResultRow) session.Profile {
	return session.Profile{
		ID:         id,
		Name:       row.Name,
		Title:      row.Title,
		URL:        row.URL,
		Info:       row.Info,
		PhotoURL:   row.PhotoURL,
		Header:     row.Header,
		GreenLabel: row.GreenLabel,
		BlueLabel:  row.BlueLabel,
		Keywords:   row.Keywords,
		Email:      row.Email,
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
