package geowidget

import "context"

// Handle is the imperative surface exposed to hosts. All methods are safe to
// call at any time; before the widget is ready they do nothing.
type Handle interface {
	ChangeLanguage(lang Language)
	ChangePointsType(types []PointType)
	// ChangePosition recenters the map. Only the first zoom value is used.
	ChangePosition(pos Position, zoom ...int)
	ChangeZoom(zoom int)
	ClearSearch()
	HideSearchResults()
	Search(query string)
	SelectPoint(name string)
	ShowPoint(name string)
	ShowPointDetails(name string)
}

// ControlAPI is the object the widget hands out with its ready event
type ControlAPI interface {
	Handle
	AddPointSelectedCallback(fn func(SelectedPoint))
}

// Event is a DOM event reduced to what the bridge reads
type Event struct {
	Type   string
	Detail any
}

// ReadyDetail is the detail payload of ReadyEvent
type ReadyDetail struct {
	API ControlAPI
}

// Target is an element that can deliver events. The listener stays
// installed until ctx is cancelled.
type Target interface {
	AddEventListener(ctx context.Context, eventType string, fn func(Event))
}

// Binder resolves the value passed to a ref callback into a Target. It
// returns nil for a null reference.
type Binder func(ref any) Target
