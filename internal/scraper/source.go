// Package scraper implements the two scrape worker modes: profile
// discovery over the directory's search results, and collaborator
// expansion over a profile's co-authorship graph. The site-specific
// browser driving lives behind the SearchSource and GraphSource
// interfaces so the phase algorithms stay testable without Chrome.
package scraper

import "context"

// ResultRow is one search-result row as rendered by the directory.
// GreenLabel/BlueLabel carry the field/specialty classification pair
// used for cheap pre-filtering before a row is turned into a profile.
type ResultRow struct {
	Name       string
	Title      string
	URL        string
	Info       string
	Header     string
	PhotoURL   string
	GreenLabel string
	BlueLabel  string
	Keywords   string
	Email      string
}

// SearchSource pages through directory search results for one name.
type SearchSource interface {
	// Open performs the search-by-name action and lands on the first
	// results page.
	Open(ctx context.Context, name string) error
	// Rows returns the rows of the current page.
	Rows(ctx context.Context) ([]ResultRow, error)
	// Next advances to the following page. It returns false when the
	// current page is the last one.
	Next(ctx context.Context) (bool, error)
}

// GraphNode is one node of the collaborator graph in rendering order,
// with the link target the page exposed for it. Href is empty when the
// site records the researcher without a living profile.
type GraphNode struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// ProfileDetail is the full detail scraped from a researcher's own
// profile page. Missing means the page no longer carries a profile
// block (deleted researcher).
type ProfileDetail struct {
	Name       string
	Title      string
	Info       string
	Header     string
	GreenLabel string
	BlueLabel  string
	Keywords   string
	PhotoURL   string
	Email      string
	Missing    bool
}

// GraphSource exposes a profile's collaborator graph and the detail
// pages its nodes link to.
type GraphSource interface {
	// Nodes navigates to the profile's graph view and enumerates its
	// nodes in rendered order, excluding the owner and legend nodes.
	Nodes(ctx context.Context, profileURL string) ([]GraphNode, error)
	// Detail visits a collaborator's profile page.
	Detail(ctx context.Context, url string) (ProfileDetail, error)
}
