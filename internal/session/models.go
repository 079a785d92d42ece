package session

// Profile is one researcher row captured during profile discovery.
// URL is the dedup key across pagination; ID is 1-based and stable
// within a session.
type Profile struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Info       string `json:"info"`
	PhotoURL   string `json:"photoUrl"`
	Header     string `json:"header"`
	GreenLabel string `json:"green_label"`
	BlueLabel  string `json:"blue_label"`
	Keywords   string `json:"keywords"`
	Email      string `json:"email"`
}

// Collaborator is one node of a profile's co-authorship graph, in the
// graph's rendering order. Deleted marks nodes whose profile link no
// longer resolves; those keep only the name the graph exposed.
type Collaborator struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Info       string `json:"info"`
	GreenLabel string `json:"green_label"`
	BlueLabel  string `json:"blue_label"`
	Keywords   string `json:"keywords"`
	PhotoURL   string `json:"photoUrl"`
	Status     string `json:"status"`
	Deleted    bool   `json:"deleted"`
	URL        string `json:"url"`
	Email      string `json:"email"`
}
