package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session, or the requested record set
// within it, does not exist yet. Pollers treat it as "not ready".
var ErrNotFound = errors.New("session: not found")

const (
	profilesFile      = "main_profile.json"
	collaboratorsFile = "collaborators.json"
	mainDoneFile      = "main_done.txt"
	collabDoneFile    = "collaborators_done.txt"
)

// Store is a filesystem-backed, session-keyed area shared between the
// scrape workers and the orchestration API. Workers overwrite full
// snapshots; the API only reads. Done markers are separate files written
// after the data they describe, so a reader can tell "in progress" from
// "finished" without locks.
type Store struct {
	root string
}

// NewStore roots a store at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("session: data dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create data dir: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the store's base directory.
func (s *Store) Root() string { return s.root }

// CreateSession allocates a fresh session namespace and returns its ID.
// IDs embed a timestamp plus a random suffix so concurrent searches
// never collide.
func (s *Store) CreateSession() (string, error) {
	id := fmt.Sprintf("session_%d_%s", time.Now().Unix(), uuid.NewString()[:8])
	if err := os.MkdirAll(s.dir(id), 0o755); err != nil {
		return "", fmt.Errorf("session: create session dir: %w", err)
	}
	return id, nil
}

// Exists reports whether the session namespace has been created.
func (s *Store) Exists(id string) bool {
	if !validID(id) {
		return false
	}
	st, err := os.Stat(s.dir(id))
	return err == nil && st.IsDir()
}

// WriteProfiles replaces the session's profile snapshot.
func (s *Store) WriteProfiles(id string, profiles []Profile) error {
	return s.writeJSON(id, profilesFile, profiles)
}

// WriteCollaborators replaces the session's collaborator snapshot.
func (s *Store) WriteCollaborators(id string, collaborators []Collaborator) error {
	return s.writeJSON(id, collaboratorsFile, collaborators)
}

// ReadProfiles returns the current profile snapshot, or ErrNotFound if
// none has been written yet. A snapshot that fails to parse is reported
// as ErrNotFound too: a concurrent writer may be mid-rename on
// filesystems without atomic rename semantics, and the poller will
// simply come back.
func (s *Store) ReadProfiles(id string) ([]Profile, error) {
	var profiles []Profile
	if err := s.readJSON(id, profilesFile, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ReadCollaborators returns the current collaborator snapshot, or
// ErrNotFound if none has been written yet.
func (s *Store) ReadCollaborators(id string) ([]Collaborator, error) {
	var collaborators []Collaborator
	if err := s.readJSON(id, collaboratorsFile, &collaborators); err != nil {
		return nil, err
	}
	return collaborators, nil
}

// MarkMainDone signals that profile discovery terminated.
func (s *Store) MarkMainDone(id string) error {
	return s.writeMarker(id, mainDoneFile)
}

// MarkCollabDone signals that the collaborator phase terminated.
func (s *Store) MarkCollabDone(id string) error {
	return s.writeMarker(id, collabDoneFile)
}

// IsMainDone reports whether profile discovery has terminated.
func (s *Store) IsMainDone(id string) bool {
	return s.hasMarker(id, mainDoneFile)
}

// IsCollabDone reports whether the collaborator phase has terminated.
func (s *Store) IsCollabDone(id string) bool {
	return s.hasMarker(id, collabDoneFile)
}

func (s *Store) dir(id string) string { return filepath.Join(s.root, id) }

// validID rejects anything that could escape the store root.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

// writeJSON serializes the full set once and publishes it atomically:
// temp file in the same directory, fsync, rename. A concurrent reader
// sees either the previous snapshot or this one, never a torn write.
func (s *Store) writeJSON(id, name string, v interface{}) error {
	if !validID(id) {
		return fmt.Errorf("session: invalid session id %q", id)
	}
	dir := s.dir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session: create session dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("session: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("session: sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("session: publish %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(id, name string, v interface{}) error {
	if !validID(id) {
		return ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir(id), name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("session: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Store) writeMarker(id, name string) error {
	if !validID(id) {
		return fmt.Errorf("session: invalid session id %q", id)
	}
	dir := s.dir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session: create session dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("session: write marker %s: %w", name, err)
	}
	if _, err := f.WriteString("done"); err != nil {
		f.Close()
		return fmt.Errorf("session: write marker %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("session: sync marker %s: %w", name, err)
	}
	return f.Close()
}

func (s *Store) hasMarker(id, name string) bool {
	if !validID(id) {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir(id), name))
	return err == nil
}
