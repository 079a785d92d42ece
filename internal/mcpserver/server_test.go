package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karagozeren/akademiknet/internal/facade"
	"github.com/karagozeren/akademiknet/internal/server"
	"github.com/karagozeren/akademiknet/internal/session"
)

type fakeResearch struct {
	searchParams facade.SearchParams
	sessionID    string
	profileID    *int
	index        int
}

func (f *fakeResearch) Search(_ context.Context, params facade.SearchParams) (*server.SearchResponse, error) {
	f.searchParams = params
	if params.Name == "" {
		return nil, &facade.Error{Type: facade.ErrValidation, Message: "name is required"}
	}
	return &server.SearchResponse{
		Success:       true,
		SessionID:     "session_5_cafebabe",
		Profiles:      []session.Profile{{ID: 1, Name: params.Name}},
		TotalProfiles: 1,
	}, nil
}

func (f *fakeResearch) Collaborators(_ context.Context, sessionID string, profileID *int) (*server.CollaboratorsResponse, error) {
	f.sessionID = sessionID
	f.profileID = profileID
	return &server.CollaboratorsResponse{
		Success:            true,
		SessionID:          sessionID,
		Collaborators:      []session.Collaborator{{ID: 1, Name: "ALİ VURAL"}},
		TotalCollaborators: 1,
		Completed:          true,
	}, nil
}

func (f *fakeResearch) SearchAndCollaborators(ctx context.Context, params facade.SearchParams, idx int) (*facade.CombinedResult, error) {
	f.index = idx
	search, err := f.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	collabs, _ := f.Collaborators(ctx, search.SessionID, &search.Profiles[0].ID)
	return &facade.CombinedResult{
		Search:        search,
		Selected:      search.Profiles[0],
		Collaborators: collabs,
		Summary: facade.Summary{
			Researcher:         params.Name,
			SessionID:          search.SessionID,
			TotalProfiles:      1,
			TotalCollaborators: 1,
		},
	}, nil
}

func serve(t *testing.T, fake *fakeResearch, lines ...string) []rpcResp {
	t.Helper()
	srv := New(fake)
	var out bytes.Buffer
	require.NoError(t, srv.Serve(strings.NewReader(strings.Join(lines, "\n")), &out))

	var resps []rpcResp
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r rpcResp
		require.NoError(t, dec.Decode(&r))
		resps = append(resps, r)
	}
	return resps
}

func TestToolsListAdvertisesAllTools(t *testing.T) {
	resps := serve(t, &fakeResearch{}, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	tools, ok := resps[0].Result["tools"].([]any)
	require.True(t, ok)
	var names []string
	for _, tl := range tools {
		m := tl.(map[string]any)
		names = append(names, m["name"].(string))
	}
	require.ElementsMatch(t, []string{"search_researcher", "get_collaborators", "search_and_get_collaborators"}, names)
}

func TestSearchToolCall(t *testing.T) {
	fake := &fakeResearch{}
	resps := serve(t, fake,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"search_researcher","arguments":{"name":"AYŞE YILMAZ","field_id":6,"specialty_ids":["601"]}}}`)
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)

	require.Equal(t, "AYŞE YILMAZ", fake.searchParams.Name)
	require.Equal(t, 6, fake.searchParams.FieldID)
	require.Equal(t, []string{"601"}, fake.searchParams.SpecialtyIDs)
	require.Equal(t, "session_5_cafebabe", resps[0].Result["sessionId"])
}

func TestCollaboratorsToolRequiresSession(t *testing.T) {
	resps := serve(t, &fakeResearch{},
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_collaborators","arguments":{}}}`)
	require.Len(t, resps, 1)
	require.NotNil(t, resps[0].Error)
	require.Contains(t, resps[0].Error.Message, "session_id")
}

func TestCollaboratorsToolPassesProfileID(t *testing.T) {
	fake := &fakeResearch{}
	resps := serve(t, fake,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"get_collaborators","arguments":{"session_id":"session_5_cafebabe","profile_id":2}}}`)
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)
	require.NotNil(t, fake.profileID)
	require.Equal(t, 2, *fake.profileID)
}

func TestCombinedToolForwardsIndex(t *testing.T) {
	fake := &fakeResearch{}
	resps := serve(t, fake,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"search_and_get_collaborators","arguments":{"name":"AYŞE YILMAZ","researcher_index":1}}}`)
	require.Len(t, resps, 1)
	require.Nil(t, resps[0].Error)
	require.Equal(t, 1, fake.index)

	summary, ok := resps[0].Result["summary"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "AYŞE YILMAZ", summary["researcher"])
}

func TestCorruptLineIsSkipped(t *testing.T) {
	resps := serve(t, &fakeResearch{},
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":`,
		`not json at all`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	// Both valid requests are answered; the garbage between them is
	// dropped without stalling the stream.
	require.Len(t, resps, 2)
	require.Nil(t, resps[0].Error)
	require.Nil(t, resps[1].Error)
	require.EqualValues(t, 1, resps[0].ID)
	require.EqualValues(t, 2, resps[1].ID)
}

func TestUnknownMethodAndTool(t *testing.T) {
	resps := serve(t, &fakeResearch{},
		`{"jsonrpc":"2.0","id":6,"method":"bogus"}`,
		`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"nope","arguments":{}}}`)
	require.Len(t, resps, 2)
	require.NotNil(t, resps[0].Error)
	require.Contains(t, resps[0].Error.Message, "unknown method")
	require.NotNil(t, resps[1].Error)
	require.Contains(t, resps[1].Error.Message, "unknown tool")
}
