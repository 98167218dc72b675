package choreo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerzada/portfolio/internal/motion"
)

const frame = 1.0 / 60

type recorder struct{ events []Event }

func (r *recorder) record(e Event) { r.events = append(r.events, e) }

// kinds lists "name:kind" for events of one section.
func (r *recorder) kinds(section string) []string {
	var out []string
	for _, e := range r.events {
		if e.Section == section {
			out = append(out, e.Name+":"+e.Kind)
		}
	}
	return out
}

// fadeSection is an about section whose content element sits at 1000px, so
// with an 800px viewport and a 0.8 threshold it enters at scroll 360.
func fadeSection(reverse bool) SectionConfig {
	return SectionConfig{
		ID:     "about",
		Top:    1000,
		Height: 800,
		Reveals: []RevealConfig{{
			Name:      "content",
			Trigger:   triggerScroll,
			Threshold: 0.8,
			Reverse:   reverse,
			Steps: []StepConfig{{
				Element:  "content",
				From:     motion.Style{"opacity": 0},
				To:       motion.Style{"opacity": 1},
				Duration: 1,
			}},
		}},
	}
}

func mountFade(t *testing.T, reverse bool) (*Context, *Section, *motion.Element, *recorder) {
	t.Helper()
	rec := &recorder{}
	ctx := NewContext(Options{Viewport: 800, Immediate: true, OnEvent: rec.record})
	el := motion.NewElement("content", nil)
	s, err := ctx.Mount(fadeSection(reverse), Handles{"content": {el}})
	require.NoError(t, err)
	return ctx, s, el, rec
}

func opacity(el *motion.Element) float64 { return el.Style()["opacity"] }

func TestMountPrimesScrollRevealAndPlacesElements(t *testing.T) {
	_, s, el, _ := mountFade(t, true)

	assert.True(t, el.Mounted())
	assert.Equal(t, 1000.0, el.Top())
	assert.Equal(t, 0.0, opacity(el))

	r, ok := s.Reveal("content")
	require.True(t, ok)
	assert.Equal(t, motion.OnScrollEnter(0.8, true), r.Trigger())
	assert.True(t, r.Registration().Active())
}

func TestScrollRevealReversesOnExit(t *testing.T) {
	ctx, _, el, rec := mountFade(t, true)

	ctx.Smoother().ScrollTo(400, true)
	ctx.Loop().Run(1.1, frame)
	assert.InDelta(t, 1, opacity(el), 1e-9)

	ctx.Smoother().ScrollTo(0, true)
	ctx.Loop().Run(1.1, frame)
	assert.InDelta(t, 0, opacity(el), 1e-9)

	ctx.Smoother().ScrollTo(400, true)
	ctx.Loop().Run(1.1, frame)

	assert.Equal(t, []string{
		"content:play", "content:complete",
		"content:reverse", "content:reversed",
		"content:play", "content:complete",
	}, rec.kinds("about"))
}

func TestScrollRevealPlaysOnce(t *testing.T) {
	ctx, _, el, rec := mountFade(t, false)

	for _, pos := range []float64{400, 0, 400} {
		ctx.Smoother().ScrollTo(pos, true)
		ctx.Loop().Run(1.1, frame)
	}
	assert.Equal(t, []string{"content:play", "content:complete"}, rec.kinds("about"))
	assert.InDelta(t, 1, opacity(el), 1e-9)
}

func TestUnmountBeforePendingTrigger(t *testing.T) {
	ctx, s, el, rec := mountFade(t, true)

	ctx.Smoother().ScrollTo(400, true)
	s.Unmount()
	ctx.Loop().Run(1, frame)

	assert.Empty(t, rec.kinds("about"))
	assert.Zero(t, ctx.Observer().Len())
	assert.False(t, el.Mounted())
	assert.False(t, s.Mounted())
	_, ok := ctx.Section("about")
	assert.False(t, ok)
}

func TestUnmountMidRevealFreezesStyle(t *testing.T) {
	ctx, s, el, rec := mountFade(t, true)

	ctx.Smoother().ScrollTo(400, true)
	ctx.Loop().Run(0.5, frame)
	mid := opacity(el)
	require.Greater(t, mid, 0.0)
	require.Less(t, mid, 1.0)

	s.Unmount()
	ctx.Loop().Run(1, frame)

	assert.Equal(t, mid, opacity(el))
	assert.Nil(t, ctx.Loop().Owner(el))
	assert.Equal(t, []string{"content:play"}, rec.kinds("about"))
}

func TestMountTwiceFails(t *testing.T) {
	ctx, _, _, _ := mountFade(t, true)
	_, err := ctx.Mount(fadeSection(true), Handles{})
	assert.ErrorIs(t, err, ErrMounted)
}

func TestRevealWithoutElementsIsSkipped(t *testing.T) {
	ctx := NewContext(Options{})
	s, err := ctx.Mount(fadeSection(true), Handles{})
	require.NoError(t, err)

	_, ok := s.Reveal("content")
	assert.False(t, ok)
	assert.Zero(t, ctx.Observer().Len())
}

func TestMountDelayedEffect(t *testing.T) {
	ctx := NewContext(Options{})
	orb := motion.NewElement("orb", nil)
	s, err := ctx.Mount(SectionConfig{
		ID: "hero",
		Effects: []EffectConfig{{
			Name:     "float",
			Element:  "orb",
			From:     motion.Style{"y": 0},
			To:       motion.Style{"y": -30},
			Duration: 4,
			Delay:    1,
			Repeat:   -1,
			Yoyo:     true,
			Autoplay: true,
		}},
	}, Handles{"orb": {orb}})
	require.NoError(t, err)

	prims := s.Effects("float")
	require.Len(t, prims, 1)

	ctx.Loop().Run(0.5, frame)
	assert.False(t, prims[0].Playing())
	ctx.Loop().Run(1, frame)
	assert.True(t, prims[0].Playing())
	ctx.Loop().Run(30, frame)
	assert.True(t, prims[0].Playing())

	assert.ErrorIs(t, s.Trigger("missing"), ErrUnknownEffect)
}

func TestTeardownWithPendingDelayedEffect(t *testing.T) {
	ctx := NewContext(Options{})
	orb := motion.NewElement("orb", nil)
	s, err := ctx.Mount(SectionConfig{
		ID: "hero",
		Effects: []EffectConfig{{
			Name: "float", Element: "orb",
			From: motion.Style{"y": 0}, To: motion.Style{"y": 10},
			Duration: 1, Delay: 2, Repeat: -1, Autoplay: true,
		}},
	}, Handles{"orb": {orb}})
	require.NoError(t, err)

	ctx.Teardown()
	ctx.Loop().Run(3, frame)

	assert.False(t, s.Effects("float")[0].Playing())
	assert.Zero(t, ctx.Loop().Pending())
	assert.True(t, ctx.Closed())

	_, err = ctx.Mount(fadeSection(true), Handles{})
	assert.ErrorIs(t, err, ErrTornDown)
	ctx.Teardown()
}
