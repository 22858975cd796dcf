package geowidget_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/geowidget/pkg/geowidget"
	"github.com/recera/geowidget/pkg/geowidget/geowidgettest"
	"github.com/recera/geowidget/pkg/renderer/html"
	"github.com/recera/geowidget/pkg/vango/vdom"
)

const registerMethod = "addPointSelectedCallback"

// attach renders w and hands el to the custom element's ref, the way an
// applier does when it creates the element
func attach(t *testing.T, w *geowidget.Widget, el any) {
	t.Helper()
	root := w.Render()
	require.Len(t, root.Kids, 1)
	ref := root.Kids[0].Ref()
	require.NotNil(t, ref, "custom element must carry a ref")
	ref(el)
}

func render(t *testing.T, w *geowidget.Widget) string {
	t.Helper()
	out, err := html.RenderToString(w.Render())
	require.NoError(t, err)
	return out
}

func TestWidget_NoForwardingBeforeReady(t *testing.T) {
	w := geowidget.New(geowidget.Props{Token: "t"})
	h := w.Handle()

	// unmounted
	h.Search("Kraków")
	h.ChangeZoom(3)

	el := geowidgettest.NewElement()
	attach(t, w, el)
	assert.Equal(t, geowidget.StateListening, w.State())

	// mounted, not ready
	h.ShowPoint("KRA010")
	h.ChangePosition(geowidget.Position{Latitude: 50, Longitude: 19}, 12)

	api := geowidgettest.NewAPI()
	el.Ready(api)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, registerMethod, calls[0].Method)
}

func TestWidget_SingleRegistrationPerAttachment(t *testing.T) {
	w := geowidget.New(geowidget.Props{Token: "t", OnPoint: func(geowidget.SelectedPoint) {}})
	el := geowidgettest.NewElement()
	attach(t, w, el)

	api := geowidgettest.NewAPI()
	el.Ready(api)
	el.Ready(api)
	el.Ready(api)

	assert.Len(t, api.CallsTo(registerMethod), 1)
	assert.Equal(t, geowidget.StateReady, w.State())

	// a new attachment registers again on its own first ready event
	w.Update(geowidget.Props{Token: "t", OnPoint: func(geowidget.SelectedPoint) {}})
	el.Ready(api)
	assert.Len(t, api.CallsTo(registerMethod), 2)
}

func TestWidget_SecondDeliveryReplacesAPI(t *testing.T) {
	w := geowidget.New(geowidget.Props{Token: "t"})
	el := geowidgettest.NewElement()
	attach(t, w, el)

	first, second := geowidgettest.NewAPI(), geowidgettest.NewAPI()
	el.Ready(first)
	el.Ready(second)

	w.Handle().ClearSearch()
	assert.Empty(t, first.CallsTo(geowidget.MethodClearSearch))
	assert.Len(t, second.CallsTo(geowidget.MethodClearSearch), 1)
	assert.Empty(t, second.CallsTo(registerMethod))
}

func TestWidget_ForwardsAfterReady(t *testing.T) {
	pos := geowidget.Position{Latitude: 52.23, Longitude: 21.01}

	tests := []struct {
		name   string
		call   func(h geowidget.Handle)
		method string
		args   []any
	}{
		{"change language", func(h geowidget.Handle) { h.ChangeLanguage(geowidget.LanguageEN) }, geowidget.MethodChangeLanguage, []any{geowidget.LanguageEN}},
		{"change points type", func(h geowidget.Handle) { h.ChangePointsType([]geowidget.PointType{geowidget.PointPOP}) }, geowidget.MethodChangePointsType, []any{[]geowidget.PointType{geowidget.PointPOP}}},
		{"change position", func(h geowidget.Handle) { h.ChangePosition(pos) }, geowidget.MethodChangePosition, []any{pos}},
		{"change position with zoom", func(h geowidget.Handle) { h.ChangePosition(pos, 14) }, geowidget.MethodChangePosition, []any{pos, 14}},
		{"change zoom", func(h geowidget.Handle) { h.ChangeZoom(9) }, geowidget.MethodChangeZoom, []any{9}},
		{"clear search", func(h geowidget.Handle) { h.ClearSearch() }, geowidget.MethodClearSearch, nil},
		{"hide search results", func(h geowidget.Handle) { h.HideSearchResults() }, geowidget.MethodHideSearchResults, nil},
		{"search", func(h geowidget.Handle) { h.Search("Gdańsk") }, geowidget.MethodSearch, []any{"Gdańsk"}},
		{"select point", func(h geowidget.Handle) { h.SelectPoint("GDA01M") }, geowidget.MethodSelectPoint, []any{"GDA01M"}},
		{"show point", func(h geowidget.Handle) { h.ShowPoint("GDA01M") }, geowidget.MethodShowPoint, []any{"GDA01M"}},
		{"show point details", func(h geowidget.Handle) { h.ShowPointDetails("GDA01M") }, geowidget.MethodShowPointDetails, []any{"GDA01M"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := geowidget.New(geowidget.Props{Token: "t"})
			el := geowidgettest.NewElement()
			attach(t, w, el)
			api := geowidgettest.NewAPI()
			el.Ready(api)

			tt.call(w.Handle())

			calls := api.CallsTo(tt.method)
			require.Len(t, calls, 1)
			assert.Equal(t, tt.args, calls[0].Args)
		})
	}
}

func TestWidget_CleanupAfterUnmount(t *testing.T) {
	var refs []geowidget.Handle
	selected := 0
	w := geowidget.New(geowidget.Props{
		Token:   "t",
		OnPoint: func(geowidget.SelectedPoint) { selected++ },
		Ref:     func(h geowidget.Handle) { refs = append(refs, h) },
	})
	el := geowidgettest.NewElement()
	attach(t, w, el)
	require.Equal(t, 1, el.Listeners(geowidget.ReadyEvent))

	// applier removing the node passes a null reference
	attach(t, w, nil)

	assert.False(t, w.Mounted())
	assert.Equal(t, geowidget.StateUnattached, w.State())
	assert.Equal(t, 0, el.Listeners(geowidget.ReadyEvent))

	api := geowidgettest.NewAPI()
	assert.NotPanics(t, func() { el.Ready(api) })
	assert.Empty(t, api.Calls())
	assert.False(t, w.Ready())

	require.Len(t, refs, 2)
	assert.NotNil(t, refs[0])
	assert.Nil(t, refs[1])

	refs[0].Search("after unmount")
	assert.Empty(t, api.Calls())
	assert.Zero(t, selected)
}

func TestWidget_UnmountAfterReadyDropsAPI(t *testing.T) {
	w := geowidget.New(geowidget.Props{Token: "t"})
	el := geowidgettest.NewElement()
	attach(t, w, el)
	api := geowidgettest.NewAPI()
	el.Ready(api)
	require.True(t, w.Ready())

	w.Unmount()
	w.Unmount()

	w.Handle().ChangeZoom(4)
	assert.Empty(t, api.CallsTo(geowidget.MethodChangeZoom))
}

func TestWidget_StaleCallbackAfterReady(t *testing.T) {
	var gotA, gotB []string
	onA := func(p geowidget.SelectedPoint) { gotA = append(gotA, p.Name) }
	onB := func(p geowidget.SelectedPoint) { gotB = append(gotB, p.Name) }

	w := geowidget.New(geowidget.Props{Token: "t", OnPoint: onA})
	el := geowidgettest.NewElement()
	attach(t, w, el)
	api := geowidgettest.NewAPI()
	el.Ready(api)

	w.Update(geowidget.Props{Token: "t", OnPoint: onB})

	require.True(t, api.Select(geowidget.SelectedPoint{Name: "WAW22A"}))
	assert.Equal(t, []string{"WAW22A"}, gotA)
	assert.Empty(t, gotB)
	assert.Len(t, api.CallsTo(registerMethod), 1)

	// the control API survives the re-attach
	w.Handle().Search("x")
	assert.Len(t, api.CallsTo(geowidget.MethodSearch), 1)
}

func TestWidget_CallbackChangeBeforeReady(t *testing.T) {
	var gotA, gotB int
	w := geowidget.New(geowidget.Props{Token: "t", OnPoint: func(geowidget.SelectedPoint) { gotA++ }})
	el := geowidgettest.NewElement()
	attach(t, w, el)

	w.Update(geowidget.Props{Token: "t", OnPoint: func(geowidget.SelectedPoint) { gotB++ }})
	assert.Equal(t, 1, el.Listeners(geowidget.ReadyEvent), "old subscription must be cancelled")
	assert.Equal(t, 2, el.Added())

	api := geowidgettest.NewAPI()
	el.Ready(api)
	api.Select(geowidget.SelectedPoint{Name: "P1"})

	assert.Zero(t, gotA)
	assert.Equal(t, 1, gotB)
	assert.Len(t, api.CallsTo(registerMethod), 1)
}

func TestWidget_MissingElement(t *testing.T) {
	refCalls := 0
	w := geowidget.New(geowidget.Props{Token: "t", Ref: func(geowidget.Handle) { refCalls++ }})

	attach(t, w, nil)
	attach(t, w, "not an element")
	w.Mount(nil)

	assert.False(t, w.Mounted())
	assert.Equal(t, geowidget.StateUnattached, w.State())
	assert.Zero(t, refCalls)
}

func TestWidget_MalformedReadyPayload(t *testing.T) {
	w := geowidget.New(geowidget.Props{Token: "t"})
	el := geowidgettest.NewElement()
	attach(t, w, el)

	el.Dispatch(geowidget.Event{Type: geowidget.ReadyEvent, Detail: "no api here"})
	el.Dispatch(geowidget.Event{Type: geowidget.ReadyEvent, Detail: geowidget.ReadyDetail{}})
	assert.Equal(t, geowidget.StateListening, w.State())
	assert.False(t, w.Ready())

	// a well-formed delivery still completes the attachment
	api := geowidgettest.NewAPI()
	el.Ready(api)
	assert.Equal(t, geowidget.StateReady, w.State())
	assert.Len(t, api.CallsTo(registerMethod), 1)
}

func TestWidget_RemountOnNewElement(t *testing.T) {
	w := geowidget.New(geowidget.Props{Token: "t"})
	first := geowidgettest.NewElement()
	attach(t, w, first)
	first.Ready(geowidgettest.NewAPI())

	second := geowidgettest.NewElement()
	attach(t, w, second)

	assert.Equal(t, 0, first.Listeners(geowidget.ReadyEvent))
	assert.Equal(t, 1, second.Listeners(geowidget.ReadyEvent))
	assert.False(t, w.Ready(), "old element's api must be dropped")
}

func TestWidget_HandleIsStable(t *testing.T) {
	var got []geowidget.Handle
	w := geowidget.New(geowidget.Props{Token: "t", Ref: func(h geowidget.Handle) { got = append(got, h) }})
	attach(t, w, geowidgettest.NewElement())
	w.Update(geowidget.Props{Token: "t", Language: geowidget.LanguageEN, Ref: func(h geowidget.Handle) { got = append(got, h) }})

	require.Len(t, got, 3)
	assert.Same(t, w.Handle(), got[0])
	assert.Nil(t, got[1])
	assert.Same(t, w.Handle(), got[2])
}

func TestWidget_UpdateMovesHandleToNewRef(t *testing.T) {
	var oldRefs, newRefs []geowidget.Handle
	w := geowidget.New(geowidget.Props{Token: "t", Ref: func(h geowidget.Handle) { oldRefs = append(oldRefs, h) }})

	// unmounted widgets hand out nothing
	w.Update(geowidget.Props{Token: "t", Ref: func(h geowidget.Handle) { oldRefs = append(oldRefs, h) }})
	assert.Empty(t, oldRefs)

	el := geowidgettest.NewElement()
	attach(t, w, el)
	require.Len(t, oldRefs, 1)

	w.Update(geowidget.Props{Token: "t", Ref: func(h geowidget.Handle) { newRefs = append(newRefs, h) }})
	require.Len(t, oldRefs, 2)
	assert.Nil(t, oldRefs[1])
	require.Len(t, newRefs, 1)
	assert.Same(t, w.Handle(), newRefs[0])

	api := geowidgettest.NewAPI()
	el.Ready(api)
	newRefs[0].Search("Poznań")
	assert.Len(t, api.CallsTo(geowidget.MethodSearch), 1)

	attach(t, w, nil)
	require.Len(t, newRefs, 2)
	assert.Nil(t, newRefs[1])
	assert.Len(t, oldRefs, 2)
}

func TestWidget_ReplacedElementKeepsMount(t *testing.T) {
	var refs []geowidget.Handle
	w := geowidget.New(geowidget.Props{Token: "t", Ref: func(h geowidget.Handle) { refs = append(refs, h) }})
	oldEl, newEl := geowidgettest.NewElement(), geowidgettest.NewElement()

	// a replacement may create the new element before releasing the old one
	attach(t, w, oldEl)
	attach(t, w, newEl)
	attach(t, w, nil)

	assert.True(t, w.Mounted())
	assert.Equal(t, 0, oldEl.Listeners(geowidget.ReadyEvent))
	assert.Equal(t, 1, newEl.Listeners(geowidget.ReadyEvent))
	require.NotEmpty(t, refs)
	assert.NotNil(t, refs[len(refs)-1])

	api := geowidgettest.NewAPI()
	newEl.Ready(api)
	assert.Len(t, api.CallsTo(registerMethod), 1)
	w.Handle().Search("Łódź")
	assert.Len(t, api.CallsTo(geowidget.MethodSearch), 1)

	// the last element to go unmounts
	attach(t, w, nil)
	assert.False(t, w.Mounted())
	assert.Nil(t, refs[len(refs)-1])
}

func TestWidget_ReleaseBeforeCreateRemounts(t *testing.T) {
	w := geowidget.New(geowidget.Props{Token: "t"})
	oldEl, newEl := geowidgettest.NewElement(), geowidgettest.NewElement()

	attach(t, w, oldEl)
	oldEl.Ready(geowidgettest.NewAPI())
	attach(t, w, nil)
	attach(t, w, newEl)

	assert.True(t, w.Mounted())
	assert.False(t, w.Ready())
	api := geowidgettest.NewAPI()
	newEl.Ready(api)
	assert.Len(t, api.CallsTo(registerMethod), 1)
	assert.True(t, w.Ready())
}

func TestWidget_AssetsRequestedPerMount(t *testing.T) {
	var requested []geowidget.Assets
	loader := geowidget.AssetLoaderFunc(func(a geowidget.Assets) { requested = append(requested, a) })
	w := geowidget.New(geowidget.Props{Token: "t"},
		geowidget.WithAssetLoader(loader),
		geowidget.WithAssets(geowidget.AssetsFor(geowidget.Sandbox)))

	attach(t, w, geowidgettest.NewElement())
	w.Update(geowidget.Props{Token: "t"})
	attach(t, w, nil)
	attach(t, w, geowidgettest.NewElement())

	require.Len(t, requested, 2)
	assert.Equal(t, geowidget.AssetsFor(geowidget.Sandbox), requested[0])
}

func TestWidget_CustomBinder(t *testing.T) {
	el := geowidgettest.NewElement()
	w := geowidget.New(geowidget.Props{Token: "t"}, geowidget.WithBinder(func(ref any) geowidget.Target {
		if ref == "picker" {
			return el
		}
		return nil
	}))

	attach(t, w, "picker")
	assert.True(t, w.Mounted())
	assert.Equal(t, 1, el.Listeners(geowidget.ReadyEvent))
}

func TestWidget_ConcurrentFacadeCalls(t *testing.T) {
	w := geowidget.New(geowidget.Props{Token: "t"})
	el := geowidgettest.NewElement()
	attach(t, w, el)
	api := geowidgettest.NewAPI()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Handle().ChangeZoom(5)
		}()
	}
	el.Ready(api)
	wg.Wait()

	w.Handle().ChangeZoom(5)
	n := len(api.CallsTo(geowidget.MethodChangeZoom))
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 51)
}

func TestWidget_RenderPassthrough(t *testing.T) {
	w := geowidget.New(geowidget.Props{
		Token:    "abc",
		Config:   geowidget.ConfigParcelSend,
		Language: geowidget.LanguageUK,
		Attrs:    vdom.Props{"data-foo": "bar"},
	})

	out := render(t, w)
	assert.Equal(t,
		`<div><inpost-geowidget config="parcelSend" data-foo="bar" language="uk" token="abc"></inpost-geowidget></div>`,
		out)
}

func TestWidget_RenderDefaults(t *testing.T) {
	out := render(t, geowidget.New(geowidget.Props{Token: "abc"}))
	assert.Contains(t, out, `language="pl"`)
	assert.Contains(t, out, `config="parcelCollect"`)
	assert.Contains(t, out, `token="abc"`)
}

func TestWidget_RenderContainer(t *testing.T) {
	w := geowidget.New(geowidget.Props{
		Token: "abc",
		Container: &geowidget.ContainerProps{
			Class: "picker",
			Attrs: vdom.Props{"id": "map", "class": "ignored", "style": "height:500px"},
		},
		Attrs: vdom.Props{"token": "overridden", "id": "inner"},
	})

	out := render(t, w)
	assert.Equal(t,
		`<div class="picker" id="map" style="height:500px"><inpost-geowidget config="parcelCollect" id="inner" language="pl" token="abc"></inpost-geowidget></div>`,
		out)
}

func TestWidget_UpdateRerendersAttributes(t *testing.T) {
	w := geowidget.New(geowidget.Props{Token: "abc"})
	prev := w.Render()
	_ = vdom.Diff(nil, prev)

	w.Update(geowidget.Props{Token: "abc", Language: geowidget.LanguageEN})
	patches := vdom.Diff(prev, w.Render())

	require.Len(t, patches, 1)
	assert.Equal(t, vdom.OpSetAttribute, patches[0].Op)
	assert.Equal(t, "language", patches[0].Key)
	assert.Equal(t, "en", patches[0].Value)
}

func TestWidget_ReadyHook(t *testing.T) {
	readies := 0
	w := geowidget.New(geowidget.Props{Token: "t"}, geowidget.WithReadyHook(func() { readies++ }))
	el := geowidgettest.NewElement()
	attach(t, w, el)

	el.Ready(geowidgettest.NewAPI())
	el.Ready(geowidgettest.NewAPI())
	assert.Equal(t, 1, readies)
}
