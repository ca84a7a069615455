package example

import (
	"testing"
	"time"

	"github.com/pthm/hxtoast"
	"github.com/stretchr/testify/require"
)

func TestSourdough(t *testing.T) {
	_, client := newTestApp(t)
	id := client.Registry().Add(hxtoast.Payload{"count": 0, "date": "<now>"}, hxtoast.Kind(KindSourdough))

	result, err := client.Get("/_t/")
	require.NoError(t, err)
	require.True(t, result.HTMLContainsAll(
		`<div class="bread-box" data-toast-id="`+string(id)+`">`,
		"<p>this is toast #0</p>",
		"something happened at &lt;now&gt;",
		`hx-post="/_t/close"`,
		`type="button"`,
		">close this toast</button>",
	))
	require.NotContains(t, result.HTML, "animationend")
}

func TestRye(t *testing.T) {
	_, client := newTestApp(t)
	client.Registry().Add(hxtoast.Payload{"count": 1, "date": "now"}, hxtoast.Kind(KindRye))

	result, err := client.Get("/_t/")
	require.NoError(t, err)
	require.True(t, result.HTMLContainsAll(
		`class="rye"`,
		`hx-trigger="animationend"`,
		`style="animation-duration: 5000ms"`,
		"This will disappear soon!",
		">close this toast</button>",
	))
}

func TestRyeDuration(t *testing.T) {
	p := hxtoast.NewPresenter(hxtoast.WithRenderer(KindRye, Rye{Duration: 1500 * time.Millisecond}))
	reg := hxtoast.NewRegistry()
	reg.Add(nil, hxtoast.Kind(KindRye))

	result, err := hxtoast.TestRender(p, reg)
	require.NoError(t, err)
	require.Contains(t, result.HTML, "animation-duration: 1500ms")
	// Without a handler there is nothing to post to, so no dead button.
	require.NotContains(t, result.HTML, "hx-post")
	require.NotContains(t, result.HTML, "<button")
	require.Contains(t, result.HTML, "This will disappear soon!")
}

func TestRyeClosesOnAnimationEnd(t *testing.T) {
	_, client := newTestApp(t)
	reg := client.Registry()
	id := reg.Add(nil, hxtoast.Kind(KindRye))

	result, err := client.Close(id)
	require.NoError(t, err)
	require.True(t, result.IsOK())
	require.Zero(t, reg.Len())
	require.Zero(t, result.ToastCount())
}
