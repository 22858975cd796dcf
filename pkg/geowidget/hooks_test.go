package geowidget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/geowidget/pkg/geowidget"
	"github.com/recera/geowidget/pkg/geowidget/geowidgettest"
	"github.com/recera/geowidget/pkg/renderer/html"
	"github.com/recera/geowidget/pkg/scheduler"
	"github.com/recera/geowidget/pkg/vango"
	"github.com/recera/geowidget/pkg/vango/vdom"
)

func TestUse_KeepsWidgetPerFiber(t *testing.T) {
	sched := scheduler.NewScheduler()
	fiber := sched.CreateFiber(func() *vdom.VNode { return nil }, nil)

	first := geowidget.Use(fiber, "picker", geowidget.Props{Token: "t"})
	second := geowidget.Use(fiber, "picker", geowidget.Props{Token: "t", Language: geowidget.LanguageEN})
	other := geowidget.Use(fiber, "other", geowidget.Props{Token: "t"})

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, geowidget.LanguageEN, first.Props().Language)
}

func TestUse_WithoutFiber(t *testing.T) {
	a := geowidget.Use(nil, "picker", geowidget.Props{Token: "t"})
	b := geowidget.Use(nil, "picker", geowidget.Props{Token: "t"})
	assert.NotSame(t, a, b)
}

func TestUse_RemovingFiberUnmounts(t *testing.T) {
	sched := scheduler.NewScheduler()
	fiber := sched.CreateFiber(func() *vdom.VNode { return nil }, nil)

	var last geowidget.Handle
	refCalls := 0
	w := geowidget.Use(fiber, "picker", geowidget.Props{
		Token: "t",
		Ref: func(h geowidget.Handle) {
			refCalls++
			last = h
		},
	})
	el := geowidgettest.NewElement()
	w.Mount(el)
	require.True(t, w.Mounted())

	sched.RemoveFiber(fiber)

	assert.False(t, w.Mounted())
	assert.Equal(t, 2, refCalls)
	assert.Nil(t, last)
	assert.Equal(t, 0, el.Listeners(geowidget.ReadyEvent))
}

func TestComponent_RendersThroughScheduler(t *testing.T) {
	sched := scheduler.NewScheduler()

	var applied []vdom.Patch
	sched.SetPatchApplier(func(p []vdom.Patch) error {
		applied = append(applied, p...)
		return nil
	})

	lang := geowidget.LanguagePL
	fiber := sched.CreateFiber(func() *vdom.VNode {
		return geowidget.Component(vango.NewContext(vango.ModeClient), "picker", geowidget.Props{Token: "t", Language: lang})
	}, nil)

	sched.RenderNow(fiber)
	require.Len(t, applied, 1)
	assert.Equal(t, vdom.OpInsertNode, applied[0].Op)

	lang = geowidget.LanguageUK
	applied = nil
	sched.RenderNow(fiber)
	require.Len(t, applied, 1)
	assert.Equal(t, vdom.OpSetAttribute, applied[0].Op)
	assert.Equal(t, "uk", applied[0].Value)
}

func TestComponent_StaticContextKeepsNoWidget(t *testing.T) {
	sched := scheduler.NewScheduler()
	fiber := sched.CreateFiber(func() *vdom.VNode { return nil }, nil)
	ctx := vango.NewContext(vango.ModeSSRStatic).WithFiber(fiber)
	props := geowidget.Props{Token: "t", Language: geowidget.LanguageEN}

	got, err := html.RenderToString(geowidget.Component(ctx, "picker", props))
	require.NoError(t, err)
	assert.Equal(t, render(t, geowidget.New(props)), got)

	created := false
	fiber.Slot("geowidget:picker", func() any {
		created = true
		return nil
	})
	assert.True(t, created, "static render must not store a widget")
}
