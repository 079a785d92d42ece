package scraper

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/karagozeren/akademiknet/internal/launcher"
	"github.com/karagozeren/akademiknet/internal/session"
)

// fakeSearch pages through canned rows without a browser.
type fakeSearch struct {
	pages    [][]ResultRow
	page     int
	opened   string
	advanced int
}

func (f *fakeSearch) Open(_ context.Context, name string) error {
	f.opened = name
	return nil
}

func (f *fakeSearch) Rows(_ context.Context) ([]ResultRow, error) {
	if f.page >= len(f.pages) {
		return nil, nil
	}
	return f.pages[f.page], nil
}

func (f *fakeSearch) Next(_ context.Context) (bool, error) {
	f.advanced++
	if f.page >= len(f.pages)-1 {
		return false, nil
	}
	f.page++
	return true, nil
}

type fakeLauncher struct {
	collabs []launcher.CollabJob
}

func (f *fakeLauncher) LaunchProfiles(launcher.ProfileJob) error { return nil }
func (f *fakeLauncher) LaunchCollaborators(job launcher.CollabJob) error {
	f.collabs = append(f.collabs, job)
	return nil
}

func row(n int) ResultRow {
	return ResultRow{
		Name:       fmt.Sprintf("Researcher %d", n),
		Title:      "PROFESÖR",
		URL:        fmt.Sprintf("https://akademik.example/ap/%d", n),
		GreenLabel: "Mühendislik Temel Alanı",
		BlueLabel:  "Bilgisayar Bilimleri ve Mühendisliği",
		Email:      fmt.Sprintf("r%d@example.edu.tr", n),
	}
}

func rowsRange(from, to int) []ResultRow {
	var out []ResultRow
	for i := from; i <= to; i++ {
		out = append(out, row(i))
	}
	return out
}

func newDiscovery(t *testing.T, src SearchSource, l launcher.Launcher) (*Discovery, *session.Store, string) {
	t.Helper()
	st, err := session.NewStore(t.TempDir())
	require.NoError(t, err)
	id, err := st.CreateSession()
	require.NoError(t, err)
	return &Discovery{
		Store:        st,
		Source:       src,
		Launcher:     l,
		MaxProfiles:  20,
		MaxEmailScan: 100,
		MaxPages:     50,
	}, st, id
}

func TestDiscoveryCapturesAndMarksDone(t *testing.T) {
	src := &fakeSearch{pages: [][]ResultRow{rowsRange(1, 3)}}
	d, st, id := newDiscovery(t, src, nil)

	require.NoError(t, d.Run(context.Background(), DiscoveryParams{Name: "yılmaz", SessionID: id}))
	require.Equal(t, "yılmaz", src.opened)

	profiles, err := st.ReadProfiles(id)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	for i, p := range profiles {
		require.Equal(t, i+1, p.ID)
	}
	require.True(t, st.IsMainDone(id))
}

func TestDiscoveryDedupsByURL(t *testing.T) {
	dup := row(1)
	src := &fakeSearch{pages: [][]ResultRow{
		{row(1), row(2)},
		{dup, row(3)}, // row 1 repeats on page 2
	}}
	d, st, id := newDiscovery(t, src, nil)

	require.NoError(t, d.Run(context.Background(), DiscoveryParams{Name: "x", SessionID: id}))

	profiles, err := st.ReadProfiles(id)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	seen := map[string]bool{}
	for _, p := range profiles {
		require.False(t, seen[p.URL], "duplicate url %s", p.URL)
		seen[p.URL] = true
	}
}

func TestDiscoveryProfileCap(t *testing.T) {
	src := &fakeSearch{pages: [][]ResultRow{rowsRange(1, 15), rowsRange(16, 30)}}
	d, st, id := newDiscovery(t, src, nil)

	require.NoError(t, d.Run(context.Background(), DiscoveryParams{Name: "x", SessionID: id}))

	profiles, err := st.ReadProfiles(id)
	require.NoError(t, err)
	require.Len(t, profiles, 20)
	require.True(t, st.IsMainDone(id))
}

func TestDiscoveryFieldAndSpecialtyFilter(t *testing.T) {
	other := row(2)
	other.GreenLabel = "Hukuk Temel Alanı"
	wrongSpec := row(3)
	wrongSpec.BlueLabel = "Elektrik-Elektronik Mühendisliği"
	src := &fakeSearch{pages: [][]ResultRow{{row(1), other, wrongSpec}}}
	d, st, id := newDiscovery(t, src, nil)

	require.NoError(t, d.Run(context.Background(), DiscoveryParams{
		Name:        "x",
		SessionID:   id,
		Field:       "Mühendislik Temel Alanı",
		Specialties: []string{"Bilgisayar Bilimleri ve Mühendisliği"},
	}))

	profiles, err := st.ReadProfiles(id)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Equal(t, row(1).URL, profiles[0].URL)
}

func TestDiscoveryZeroResultsLeavesNoMarker(t *testing.T) {
	src := &fakeSearch{pages: [][]ResultRow{}}
	d, st, id := newDiscovery(t, src, nil)

	require.NoError(t, d.Run(context.Background(), DiscoveryParams{Name: "x", SessionID: id}))

	_, err := st.ReadProfiles(id)
	require.ErrorIs(t, err, session.ErrNotFound)
	require.False(t, st.IsMainDone(id))
}

func TestDiscoveryEmailMatchShortCircuits(t *testing.T) {
	src := &fakeSearch{pages: [][]ResultRow{rowsRange(1, 10), rowsRange(11, 20)}}
	l := &fakeLauncher{}
	d, st, id := newDiscovery(t, src, l)

	// Mixed case on purpose: the match is case-insensitive.
	require.NoError(t, d.Run(context.Background(), DiscoveryParams{
		Name:      "x",
		SessionID: id,
		Email:     "R4@EXAMPLE.EDU.TR",
	}))

	profiles, err := st.ReadProfiles(id)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Equal(t, "r4@example.edu.tr", profiles[0].Email)
	require.True(t, st.IsMainDone(id))

	// Phase 2 chained immediately, and page 2 was never visited.
	require.Len(t, l.collabs, 1)
	require.Equal(t, id, l.collabs[0].SessionID)
	require.Equal(t, profiles[0].URL, l.collabs[0].ProfileURL)
	require.Zero(t, src.advanced)
}

func TestDiscoveryEmailScanCap(t *testing.T) {
	var pages [][]ResultRow
	for p := 0; p < 10; p++ {
		pages = append(pages, rowsRange(p*20+1, p*20+20))
	}
	src := &fakeSearch{pages: pages}
	l := &fakeLauncher{}
	d, st, id := newDiscovery(t, src, l)

	require.NoError(t, d.Run(context.Background(), DiscoveryParams{
		Name:      "x",
		SessionID: id,
		Email:     "nobody@nowhere.edu.tr",
	}))

	// 100 rows scanned without a match: no profiles, no marker, no
	// phase-2 launch, and scanning stopped at the cap (pages 1-5).
	_, err := st.ReadProfiles(id)
	require.ErrorIs(t, err, session.ErrNotFound)
	require.False(t, st.IsMainDone(id))
	require.Empty(t, l.collabs)
	require.Equal(t, 4, src.advanced)
}

func TestDiscoverySnapshotMonotonicity(t *testing.T) {
	src := &fakeSearch{pages: [][]ResultRow{rowsRange(1, 2), rowsRange(3, 5)}}
	d, st, id := newDiscovery(t, src, nil)

	require.NoError(t, d.Run(context.Background(), DiscoveryParams{Name: "x", SessionID: id}))

	profiles, err := st.ReadProfiles(id)
	require.NoError(t, err)
	require.Len(t, profiles, 5)
	for i := 1; i < len(profiles); i++ {
		require.Greater(t, profiles[i].ID, profiles[i-1].ID)
	}
}
