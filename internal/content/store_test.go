package content

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	s, err := OpenSQL(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	def, err := Default()
	require.NoError(t, err)
	seeded, err := s.Seed(ctx, def.Catalog())
	require.NoError(t, err)
	require.True(t, seeded)
	return s
}

func TestSQLStoreMatchesCatalog(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	def, _ := Default()

	want, _ := def.Projects(ctx)
	got, err := s.Projects(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("projects (-want +got):\n%s", diff)
	}

	for _, c := range Categories {
		want, _ := def.Achievements(ctx, c)
		got, err := s.Achievements(ctx, c)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s achievements (-want +got):\n%s", c, diff)
		}
	}

	about, err := s.About(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Peerzada Hanan", about.Name)
}

func TestSQLStoreSeedsOnce(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	def, _ := Default()

	seeded, err := s.Seed(ctx, def.Catalog())
	require.NoError(t, err)
	assert.False(t, seeded)

	projects, _ := s.Projects(ctx)
	assert.Len(t, projects, 6)
}

func TestSQLStoreCreateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	p, err := s.CreateProject(ctx, Project{Title: "Shader Lab", Tags: []string{"WebGL"}})
	require.NoError(t, err)
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, []string{"WebGL"}, p.Tags)

	projects, _ := s.Projects(ctx)
	assert.Equal(t, "Shader Lab", projects[len(projects)-1].Title)

	a, err := s.CreateAchievement(ctx, Achievement{Title: "Game Jam", Category: Event, Date: "2025"})
	require.NoError(t, err)
	events, _ := s.Achievements(ctx, Event)
	assert.Equal(t, []string{"College Hackathon", "Game Jam"}, titles(events, achievementTitle))

	require.NoError(t, s.DeleteProject(ctx, p.ID))
	_, err = s.Project(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteProject(ctx, p.ID), ErrNotFound)

	require.NoError(t, s.DeleteAchievement(ctx, a.ID))
	assert.ErrorIs(t, s.DeleteAchievement(ctx, a.ID), ErrNotFound)
}

func TestSQLStoreRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	_, err := s.CreateProject(ctx, Project{})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	_, err = s.CreateAchievement(ctx, Achievement{Title: "x", Category: "sports"})
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = s.CreateProject(ctx, Project{ID: 1, Title: "clash"})
	assert.Error(t, err)
}

func TestSQLStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "content.db")

	s, err := OpenSQL(ctx, path)
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, Project{Title: "Kept"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQL(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	projects, err := s.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kept"}, titles(projects, projectTitle))
}
