package geowidget

// handle forwards to whatever API the cell holds at call time
type handle struct {
	cell *apiCell
}

var _ Handle = (*handle)(nil)

func (h *handle) ChangeLanguage(lang Language) {
	if api := h.cell.load(); api != nil {
		api.ChangeLanguage(lang)
	}
}

func (h *handle) ChangePointsType(types []PointType) {
	if api := h.cell.load(); api != nil {
		api.ChangePointsType(types)
	}
}

func (h *handle) ChangePosition(pos Position, zoom ...int) {
	if api := h.cell.load(); api != nil {
		api.ChangePosition(pos, zoom...)
	}
}

func (h *handle) ChangeZoom(zoom int) {
	if api := h.cell.load(); api != nil {
		api.ChangeZoom(zoom)
	}
}

func (h *handle) ClearSearch() {
	if api := h.cell.load(); api != nil {
		api.ClearSearch()
	}
}

func (h *handle) HideSearchResults() {
	if api := h.cell.load(); api != nil {
		api.HideSearchResults()
	}
}

func (h *handle) Search(query string) {
	if api := h.cell.load(); api != nil {
		api.Search(query)
	}
}

func (h *handle) SelectPoint(name string) {
	if api := h.cell.load(); api != nil {
		api.SelectPoint(name)
	}
}

func (h *handle) ShowPoint(name string) {
	if api := h.cell.load(); api != nil {
		api.ShowPoint(name)
	}
}

func (h *handle) ShowPointDetails(name string) {
	if api := h.cell.load(); api != nil {
		api.ShowPointDetails(name)
	}
}
