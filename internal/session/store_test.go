package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestCreateSessionUniqueIDs(t *testing.T) {
	st := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id, err := st.CreateSession()
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(id, "session_"))
		require.False(t, seen[id], "duplicate session id %s", id)
		seen[id] = true
		require.True(t, st.Exists(id))
	}
}

func TestReadBeforeWriteIsNotFound(t *testing.T) {
	st := newTestStore(t)
	id, err := st.CreateSession()
	require.NoError(t, err)

	_, err = st.ReadProfiles(id)
	require.True(t, errors.Is(err, ErrNotFound))
	_, err = st.ReadCollaborators(id)
	require.True(t, errors.Is(err, ErrNotFound))
	require.False(t, st.IsMainDone(id))
	require.False(t, st.IsCollabDone(id))
}

func TestProfileSnapshotRoundTrip(t *testing.T) {
	st := newTestStore(t)
	id, err := st.CreateSession()
	require.NoError(t, err)

	first := []Profile{{ID: 1, Name: "Ayşe Yılmaz", URL: "https://example/p/1"}}
	require.NoError(t, st.WriteProfiles(id, first))

	got, err := st.ReadProfiles(id)
	require.NoError(t, err)
	require.Equal(t, first, got)

	// Snapshot overwrite: the second write fully replaces the first,
	// previously assigned ids keep their values.
	second := append(first, Profile{ID: 2, Name: "Mehmet Demir", URL: "https://example/p/2"})
	require.NoError(t, st.WriteProfiles(id, second))

	got, err = st.ReadProfiles(id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 1, got[0].ID)
	require.Equal(t, "Ayşe Yılmaz", got[0].Name)
}

func TestDoneMarkers(t *testing.T) {
	st := newTestStore(t)
	id, err := st.CreateSession()
	require.NoError(t, err)

	require.NoError(t, st.MarkMainDone(id))
	require.True(t, st.IsMainDone(id))
	require.False(t, st.IsCollabDone(id))

	require.NoError(t, st.MarkCollabDone(id))
	require.True(t, st.IsCollabDone(id))
}

func TestCorruptSnapshotReadsAsNotFound(t *testing.T) {
	st := newTestStore(t)
	id, err := st.CreateSession()
	require.NoError(t, err)

	path := filepath.Join(st.Root(), id, "main_profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1, "name":`), 0o644))

	_, err = st.ReadProfiles(id)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidSessionIDsRejected(t *testing.T) {
	st := newTestStore(t)

	for _, id := range []string{"", "..", "a/b", `a\b`} {
		require.Error(t, st.WriteProfiles(id, nil), "id %q", id)
		_, err := st.ReadProfiles(id)
		require.True(t, errors.Is(err, ErrNotFound), "id %q", id)
		require.False(t, st.Exists(id))
	}
}

func TestNoSnapshotLeavesNoTempFiles(t *testing.T) {
	st := newTestStore(t)
	id, err := st.CreateSession()
	require.NoError(t, err)

	require.NoError(t, st.WriteCollaborators(id, []Collaborator{{ID: 1, Name: "X"}}))

	entries, err := os.ReadDir(filepath.Join(st.Root(), id))
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.Contains(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}
