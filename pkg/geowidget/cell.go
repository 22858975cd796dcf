package geowidget

import "sync"

// apiCell holds the control API once the widget is ready
type apiCell struct {
	mu  sync.RWMutex
	api ControlAPI
}

func (c *apiCell) load() ControlAPI {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.api
}

func (c *apiCell) store(api ControlAPI) {
	c.mu.Lock()
	c.api = api
	c.mu.Unlock()
}

func (c *apiCell) clear() {
	c.store(nil)
}
