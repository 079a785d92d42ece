package facade

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karagozeren/akademiknet/internal/server"
	"github.com/karagozeren/akademiknet/internal/session"
)

// fakeAPI serves both orchestration endpoints with canned data and
// records which profile was selected for expansion.
func fakeAPI(t *testing.T, profiles []session.Profile) (*httptest.Server, *server.CollaboratorsRequest) {
	t.Helper()
	var selected server.CollaboratorsRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(server.SearchResponse{
			Success:       true,
			SessionID:     "session_9_deadbeef",
			Profiles:      profiles,
			TotalProfiles: len(profiles),
		})
	})
	mux.HandleFunc("/api/collaborators/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&selected))
		require.True(t, strings.HasSuffix(r.URL.Path, "session_9_deadbeef"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(server.CollaboratorsResponse{
			Success:   true,
			SessionID: "session_9_deadbeef",
			Collaborators: []session.Collaborator{
				{ID: 1, Name: "ALİ VURAL", Status: "completed"},
			},
			TotalCollaborators: 1,
			Completed:          true,
		})
	})
	return httptest.NewServer(mux), &selected
}

func TestSearchAndCollaboratorsSelectsByIndex(t *testing.T) {
	profiles := []session.Profile{
		{ID: 1, Name: "AYŞE YILMAZ", URL: "https://akademik.example/ap/a"},
		{ID: 2, Name: "AYŞE YILMAZ", URL: "https://akademik.example/ap/b"},
	}
	srv, selected := fakeAPI(t, profiles)
	defer srv.Close()

	c := NewClient(testFacadeConfig(srv.URL))
	res, err := c.SearchAndCollaborators(context.Background(), SearchParams{Name: "AYŞE YILMAZ"}, 1)
	require.NoError(t, err)

	require.Equal(t, 2, res.Selected.ID)
	require.NotNil(t, selected.ProfileID)
	require.Equal(t, 2, *selected.ProfileID)
	require.Equal(t, 1, res.Summary.TotalCollaborators)
	require.Equal(t, 2, res.Summary.TotalProfiles)
	require.Equal(t, "session_9_deadbeef", res.Summary.SessionID)
	require.True(t, res.Collaborators.Completed)
}

func TestSearchAndCollaboratorsIndexOutOfRange(t *testing.T) {
	srv, _ := fakeAPI(t, []session.Profile{{ID: 1, Name: "AYŞE YILMAZ"}})
	defer srv.Close()

	c := NewClient(testFacadeConfig(srv.URL))
	_, err := c.SearchAndCollaborators(context.Background(), SearchParams{Name: "AYŞE YILMAZ"}, 5)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, ErrValidation, fe.Type)
	require.Contains(t, fe.Message, "out of range")
}

func TestSearchAndCollaboratorsEmptySearchFails(t *testing.T) {
	srv, _ := fakeAPI(t, nil)
	defer srv.Close()

	c := NewClient(testFacadeConfig(srv.URL))
	_, err := c.SearchAndCollaborators(context.Background(), SearchParams{Name: "NOBODY HERE"}, 0)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, ErrValidation, fe.Type)
	require.Contains(t, fe.Message, "no researchers found")
}
