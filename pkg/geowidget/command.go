package geowidget

import (
	"encoding/json"
	"fmt"
)

// Method names of the control API, as used in serialized commands
const (
	MethodChangeLanguage    = "changeLanguage"
	MethodChangePointsType  = "changePointsType"
	MethodChangePosition    = "changePosition"
	MethodChangeZoom        = "changeZoom"
	MethodClearSearch       = "clearSearch"
	MethodHideSearchResults = "hideSearchResults"
	MethodSearch            = "search"
	MethodSelectPoint       = "selectPoint"
	MethodShowPoint         = "showPoint"
	MethodShowPointDetails  = "showPointDetails"
)

// Command is a serialized Handle call. Args is a JSON array of positional
// arguments.
type Command struct {
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// NewCommand builds a command from positional arguments
func NewCommand(method string, args ...any) (Command, error) {
	if args == nil {
		args = []any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return Command{}, fmt.Errorf("encode %s args: %w", method, err)
	}
	return Command{Method: method, Args: raw}, nil
}

// Dispatch decodes cmd and invokes the matching Handle method
func Dispatch(h Handle, cmd Command) error {
	var args []json.RawMessage
	if len(cmd.Args) > 0 {
		if err := json.Unmarshal(cmd.Args, &args); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrBadArgs, cmd.Method, err)
		}
	}
	a := argList{method: cmd.Method, raw: args}

	switch cmd.Method {
	case MethodChangeLanguage:
		var s string
		if err := a.exact(1, &s); err != nil {
			return err
		}
		lang := Language(s)
		if !lang.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
		}
		h.ChangeLanguage(lang)
	case MethodChangePointsType:
		var types []PointType
		if err := a.exact(1, &types); err != nil {
			return err
		}
		h.ChangePointsType(types)
	case MethodChangePosition:
		var pos Position
		if len(args) == 2 {
			var zoom int
			if err := a.exact(2, &pos, &zoom); err != nil {
				return err
			}
			h.ChangePosition(pos, zoom)
			return nil
		}
		if err := a.exact(1, &pos); err != nil {
			return err
		}
		h.ChangePosition(pos)
	case MethodChangeZoom:
		var zoom int
		if err := a.exact(1, &zoom); err != nil {
			return err
		}
		h.ChangeZoom(zoom)
	case MethodClearSearch:
		if err := a.exact(0); err != nil {
			return err
		}
		h.ClearSearch()
	case MethodHideSearchResults:
		if err := a.exact(0); err != nil {
			return err
		}
		h.HideSearchResults()
	case MethodSearch, MethodSelectPoint, MethodShowPoint, MethodShowPointDetails:
		var s string
		if err := a.exact(1, &s); err != nil {
			return err
		}
		switch cmd.Method {
		case MethodSearch:
			h.Search(s)
		case MethodSelectPoint:
			h.SelectPoint(s)
		case MethodShowPoint:
			h.ShowPoint(s)
		default:
			h.ShowPointDetails(s)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, cmd.Method)
	}
	return nil
}

type argList struct {
	method string
	raw    []json.RawMessage
}

// exact decodes exactly n arguments into dst
func (a argList) exact(n int, dst ...any) error {
	if len(a.raw) != n {
		return fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrBadArgs, a.method, n, len(a.raw))
	}
	for i, d := range dst {
		if err := json.Unmarshal(a.raw[i], d); err != nil {
			return fmt.Errorf("%w: %s argument %d: %v", ErrBadArgs, a.method, i, err)
		}
	}
	return nil
}
