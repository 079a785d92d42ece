// Package mcpserver exposes the research tools over stdio JSON-RPC so
// MCP clients can call them: "tools/list" and "tools/call". All scraping
// state lives server-side behind the orchestration API; the tools here
// are stateless wrappers over the facade client.
package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/karagozeren/akademiknet/internal/facade"
	"github.com/karagozeren/akademiknet/internal/server"
)

// ---------- JSON-RPC skeleton ----------

type rpcReq struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      any                    `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params"`
}
type rpcResp struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      any                    `json:"id"`
	Result  map[string]interface{} `json:"result,omitempty"`
	Error   *rpcError              `json:"error,omitempty"`
}
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeResp(w io.Writer, id any, result map[string]interface{}, err error) {
	resp := rpcResp{JSONRPC: "2.0", ID: id}
	if err != nil {
		resp.Error = &rpcError{Code: -32000, Message: err.Error()}
	} else {
		resp.Result = result
	}
	enc := json.NewEncoder(w)
	_ = enc.Encode(resp)
}

// ToolDesc describes a single MCP tool, including input schema.
type ToolDesc struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// research is the slice of the facade client the tools need.
type research interface {
	Search(ctx context.Context, params facade.SearchParams) (*server.SearchResponse, error)
	Collaborators(ctx context.Context, sessionID string, profileID *int) (*server.CollaboratorsResponse, error)
	SearchAndCollaborators(ctx context.Context, params facade.SearchParams, researcherIndex int) (*facade.CombinedResult, error)
}

// Server holds shared deps and the cached tool descriptors.
type Server struct {
	Client research
	Log    *log.Logger

	// CallTimeout bounds one tool invocation. The combined tool can
	// legitimately block for both poll windows plus retries.
	CallTimeout time.Duration

	tools []ToolDesc
}

func New(client research) *Server {
	srv := &Server{
		Client:      client,
		Log:         log.New(log.Writer(), "[MCP] ", log.LstdFlags),
		CallTimeout: 10 * time.Minute,
	}
	srv.initTools()
	return srv
}

func (srv *Server) initTools() {
	searchProps := map[string]any{
		"name":          map[string]any{"type": "string", "description": "Researcher name to search for."},
		"email":         map[string]any{"type": "string", "description": "Exact email to pin down one researcher."},
		"field_id":      map[string]any{"type": "integer", "description": "Academic field ID to filter by."},
		"specialty_ids": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Specialty IDs within the field; \"all\" expands every specialty."},
	}
	srv.tools = []ToolDesc{
		{
			Name:        "search_researcher",
			Description: "Search the academic directory for researcher profiles by name, optionally filtered by email, field and specialties.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": searchProps,
				"required":   []string{"name"},
			},
		},
		{
			Name:        "get_collaborators",
			Description: "Fetch the collaborator graph for a previous search session. Pass profile_id to pick which discovered profile to expand; blocks until the graph is resolved.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"session_id": map[string]any{"type": "string"},
					"profile_id": map[string]any{"type": "integer"},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "search_and_get_collaborators",
			Description: "Search for a researcher and expand their collaborator graph in one call. researcher_index picks which search hit to expand (default: first).",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":             searchProps["name"],
					"email":            searchProps["email"],
					"field_id":         searchProps["field_id"],
					"specialty_ids":    searchProps["specialty_ids"],
					"researcher_index": map[string]any{"type": "integer", "minimum": 0},
				},
				"required": []string{"name"},
			},
		},
	}
}

func (srv *Server) callTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "search_researcher":
		return srv.tSearch(ctx, args)
	case "get_collaborators":
		return srv.tCollaborators(ctx, args)
	case "search_and_get_collaborators":
		return srv.tCombined(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// ---------- Tool handlers ----------

func searchParams(args map[string]any) facade.SearchParams {
	return facade.SearchParams{
		Name:         str(args["name"]),
		Email:        str(args["email"]),
		FieldID:      asInt(args["field_id"]),
		SpecialtyIDs: asStrSlice(args["specialty_ids"]),
	}
}

func (srv *Server) tSearch(ctx context.Context, args map[string]any) (map[string]any, error) {
	res, err := srv.Client.Search(ctx, searchParams(args))
	if err != nil {
		return nil, err
	}
	return toMap(res)
}

func (srv *Server) tCollaborators(ctx context.Context, args map[string]any) (map[string]any, error) {
	sessionID := str(args["session_id"])
	if sessionID == "" {
		return nil, errors.New("session_id is required")
	}
	var profileID *int
	if _, ok := args["profile_id"]; ok {
		id := asInt(args["profile_id"])
		profileID = &id
	}
	res, err := srv.Client.Collaborators(ctx, sessionID, profileID)
	if err != nil {
		return nil, err
	}
	return toMap(res)
}

func (srv *Server) tCombined(ctx context.Context, args map[string]any) (map[string]any, error) {
	res, err := srv.Client.SearchAndCollaborators(ctx, searchParams(args), asInt(args["researcher_index"]))
	if err != nil {
		return nil, err
	}
	return toMap(res)
}

// ---------- helpers ----------

func str(v any) string { s, _ := v.(string); return s }

func asInt(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case int:
		return x
	case json.Number:
		i, _ := x.Int64()
		return int(i)
	default:
		return 0
	}
}

func asStrSlice(v any) []string {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// toMap flattens a typed result into the generic shape the RPC layer
// writes.
func toMap(v interface{}) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------- stdio loop ----------

// Serve runs the stdio JSON-RPC loop until EOF. Requests arrive one
// JSON object per line; a line that fails to parse is dropped so one
// corrupt byte cannot wedge the stream.
func (srv *Server) Serve(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var req rpcReq
		if err := json.Unmarshal(line, &req); err != nil {
			srv.Log.Printf("dropping unparsable request line: %v", err)
			continue
		}

		switch req.Method {
		case "tools/list":
			writeResp(out, req.ID, map[string]any{"tools": srv.tools}, nil)

		case "tools/call":
			name := ""
			args := map[string]any{}
			if v, ok := req.Params["name"].(string); ok {
				name = v
			}
			if m, ok := req.Params["arguments"].(map[string]any); ok {
				args = m
			}
			ctx, cancel := context.WithTimeout(context.Background(), srv.CallTimeout)
			srv.Log.Printf("tool call: %s", name)
			res, err := srv.callTool(ctx, name, args)
			cancel()
			if err != nil {
				srv.Log.Printf("tool %s failed: %v", name, err)
			}
			writeResp(out, req.ID, res, err)

		default:
			writeResp(out, req.ID, nil, fmt.Errorf("unknown method: %s", req.Method))
		}
	}
	return sc.Err()
}
