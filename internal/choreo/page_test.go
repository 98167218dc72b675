package choreo

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerzada/portfolio/internal/modal"
	"github.com/peerzada/portfolio/internal/scroll"
)

var testCounts = Counts{"projects": 3, "skills": 6}

func newPage(t *testing.T) (*Page, *recorder) {
	t.Helper()
	cfg, err := Default()
	require.NoError(t, err)
	rec := &recorder{}
	p, err := NewPage(cfg, PageOptions{Counts: testCounts, OnEvent: rec.record})
	require.NoError(t, err)
	t.Cleanup(p.Teardown)
	return p, rec
}

func (r *recorder) find(section, name, kind string) (Event, bool) {
	for _, e := range r.events {
		if e.Section == section && e.Name == name && e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func TestPageBuildsHandlesFromCounts(t *testing.T) {
	p, _ := newPage(t)

	s, ok := p.Section("projects")
	require.True(t, ok)
	assert.Len(t, s.Elements("card"), 3)

	about, _ := p.Section("about")
	assert.Len(t, about.Elements("skill"), 6)

	skills, err := p.Element("about", "skills", 0)
	require.NoError(t, err)
	assert.Equal(t, 1550.0, skills.Top())

	_, err = p.Element("projects", "card", 3)
	assert.ErrorIs(t, err, ErrUnknownElement)

	assert.Equal(t, scroll.Anchors{
		"hero": 0, "about": 900, "projects": 2000, "achievements": 3400, "contact": 4600, "footer": 5600,
	}, p.Anchors())
	assert.Equal(t, 5200.0, p.Context().Smoother().Limit())
}

func TestPreloaderHandsOffToHero(t *testing.T) {
	p, rec := newPage(t)

	screen, err := p.Element("preloader", "screen", 0)
	require.NoError(t, err)
	content, err := p.Element("hero", "content", 0)
	require.NoError(t, err)

	assert.True(t, screen.Visible())
	assert.Equal(t, 0.0, content.Style()["opacity"])

	p.Run(4.2, frame)
	assert.True(t, screen.Visible())

	p.Run(0.2, frame)
	assert.False(t, screen.Visible())
	hidden, ok := rec.find("preloader", "screen", EventHidden)
	require.True(t, ok)
	assert.InDelta(t, 4.3, hidden.Time, frame)

	handoff, ok := rec.find("hero", "content", EventPlay)
	require.True(t, ok)
	assert.Equal(t, hidden.Time, handoff.Time)

	p.Run(1.5, frame)
	assert.InDelta(t, 1, content.Style()["opacity"], 1e-9)

	kinds := rec.kinds("preloader")
	assert.Equal(t, []string{"loading:play", "loading:complete", "screen:hidden"}, kinds)
}

func TestHeroEntranceAndAmbientLoops(t *testing.T) {
	p, rec := newPage(t)
	hero, _ := p.Section("hero")

	p.Run(0.5, frame)
	assert.True(t, hero.Effects("orb1")[0].Playing())
	assert.False(t, hero.Effects("orb2")[0].Playing())

	p.Run(6, frame)
	title, _ := p.Element("hero", "title", 0)
	cta, _ := p.Element("hero", "cta", 0)
	assert.InDelta(t, 1, title.Style()["opacity"], 1e-9)
	assert.InDelta(t, 1, cta.Style()["scale"], 1e-9)
	assert.True(t, hero.Effects("orb2")[0].Playing())

	_, ok := rec.find("hero", "entrance", EventComplete)
	assert.True(t, ok)

	require.NoError(t, p.Hover("hero", "cta", 0, true))
	p.Run(0.4, frame)
	assert.InDelta(t, 1.05, cta.Style()["scale"], 1e-9)
	require.NoError(t, p.Hover("hero", "cta", 0, false))
	p.Run(0.4, frame)
	assert.InDelta(t, 1, cta.Style()["scale"], 1e-9)

	assert.ErrorIs(t, p.Hover("hero", "title", 0, true), ErrUnknownElement)
	assert.ErrorIs(t, p.Hover("nowhere", "cta", 0, true), ErrUnknownElement)
}

func TestScrollingRevealsProjectCards(t *testing.T) {
	p, rec := newPage(t)

	p.Scroll(1700)
	p.Run(2.5, frame)

	for i := range 3 {
		card, err := p.Element("projects", "card", i)
		require.NoError(t, err)
		assert.InDelta(t, 1, card.Style()["opacity"], 1e-9, "card %d", i)
		assert.InDelta(t, 1, card.Style()["scale"], 1e-9, "card %d", i)
	}
	assert.InDelta(t, 1700, p.Position(), 0.01)
	assert.Subset(t, rec.kinds("about"), []string{"image:complete", "content:complete", "skills:complete"})

	// Contact is still below the fold.
	_, ok := rec.find("contact", "section", EventPlay)
	assert.False(t, ok)
}

func TestNavigateJumpsWithoutIntermediatePositions(t *testing.T) {
	p, rec := newPage(t)
	p.Advance(frame)

	var seen []float64
	cancel := p.Context().Smoother().Subscribe(func(pos float64) { seen = append(seen, pos) })
	defer cancel()

	require.NoError(t, p.Navigate("contact"))
	p.Run(0.5, frame)

	assert.Equal(t, []float64{4600}, seen)
	_, ok := rec.find("contact", "scroll", EventNavigate)
	assert.True(t, ok)
	_, ok = rec.find("contact", "section", EventPlay)
	assert.True(t, ok)

	assert.ErrorIs(t, p.Navigate("blog"), scroll.ErrUnknownSection)
}

func TestProjectModalLifecycle(t *testing.T) {
	p, rec := newPage(t)
	overlay, err := p.Overlay("project")
	require.NoError(t, err)
	m, err := p.Modal("project")
	require.NoError(t, err)

	assert.False(t, overlay.Visible())
	require.NoError(t, p.OpenModal("project", "2"))
	assert.True(t, overlay.Visible())
	assert.Equal(t, modal.Opening, m.State())
	item, ok := p.Selected("project")
	assert.True(t, ok)
	assert.Equal(t, "2", item)

	p.Run(0.5, frame)
	assert.Equal(t, modal.Open, m.State())
	content, _ := p.Element("modal:project", "content", 0)
	assert.InDelta(t, 1, content.Style()["scale"], 1e-9)

	require.NoError(t, p.CloseModal("project"))
	p.Run(0.4, frame)
	assert.Equal(t, modal.Closed, m.State())
	assert.False(t, overlay.Visible())
	_, ok = p.Selected("project")
	assert.False(t, ok)

	var states []string
	for _, e := range rec.events {
		if e.Kind == EventModal && e.Name == "project" {
			states = append(states, e.Detail)
		}
	}
	assert.Equal(t, []string{"opening", "open", "closing", "closed"}, states)

	assert.ErrorIs(t, p.OpenModal("gallery", "1"), ErrUnknownModal)
}

func TestSecondModalWaitsForFirstToClose(t *testing.T) {
	p, _ := newPage(t)
	project, _ := p.Modal("project")
	cert, _ := p.Modal("certificate")

	require.NoError(t, p.OpenModal("project", "1"))
	p.Run(0.5, frame)
	require.NoError(t, p.OpenModal("certificate", "7"))

	assert.Equal(t, modal.Closing, project.State())
	assert.Equal(t, modal.Closed, cert.State())

	p.Run(0.6, frame)
	assert.Equal(t, modal.Closed, project.State())
	assert.Equal(t, modal.Open, cert.State())
	item, _ := p.Selected("certificate")
	assert.Equal(t, "7", item)
}

func TestSubmitPulse(t *testing.T) {
	p, rec := newPage(t)
	btn, err := p.Element("contact", "submit", 0)
	require.NoError(t, err)

	require.NoError(t, p.Submit())
	p.Run(0.05, frame)
	pressed := btn.Style()["scale"]
	assert.Less(t, pressed, 1.0)
	assert.Greater(t, pressed, 0.95)

	p.Run(0.2, frame)
	assert.InDelta(t, 1, btn.Style()["scale"], 1e-9)
	contact, _ := p.Section("contact")
	assert.False(t, contact.Effects("submit")[0].Playing())

	_, ok := rec.find("contact", "submit", EventEffect)
	assert.True(t, ok)
}

func TestMobileMenuStaggersItems(t *testing.T) {
	p, rec := newPage(t)
	nav, _ := p.Section("navigation")
	items := nav.Elements("mobile-item")
	require.Len(t, items, 5)
	for _, el := range items {
		assert.Equal(t, 50.0, el.Style()["x"])
		assert.Zero(t, el.Style()["opacity"])
	}

	require.NoError(t, p.ToggleMenu())
	assert.True(t, p.MenuOpen())
	p.Run(0.2, frame)
	assert.Less(t, items[0].Style()["x"], 50.0)
	assert.Equal(t, 50.0, items[4].Style()["x"])

	p.Run(0.6, frame)
	for _, el := range items {
		assert.InDelta(t, 0, el.Style()["x"], 1e-9)
		assert.InDelta(t, 1, el.Style()["opacity"], 1e-9)
	}
	_, ok := rec.find("navigation", "mobile", EventComplete)
	assert.True(t, ok)

	require.NoError(t, p.ToggleMenu())
	assert.False(t, p.MenuOpen())
	assert.Equal(t, 50.0, items[2].Style()["x"])
	assert.Zero(t, items[2].Style()["opacity"])
}

func TestPageTeardown(t *testing.T) {
	p, _ := newPage(t)
	require.NoError(t, p.OpenModal("project", "1"))
	p.Scroll(3000)
	p.Run(3, frame)

	p.Teardown()
	ctx := p.Context()
	assert.Zero(t, ctx.Loop().Pending())
	assert.Zero(t, ctx.Observer().Len())
	assert.True(t, ctx.Smoother().Closed())
	assert.Empty(t, ctx.Sections())
	assert.Nil(t, ctx.Backdrop().Active())

	overlay, _ := p.Overlay("project")
	assert.False(t, overlay.Visible())
	assert.True(t, slices.ContainsFunc(p.Config().Sections, func(s SectionConfig) bool { return s.ID == "hero" }))
}
