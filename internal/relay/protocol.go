// Package relay connects pages hosting a geowidget with the serving process.
// Pages report readiness and selected points; the server pushes facade
// commands and configuration changes back.
package relay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/recera/geowidget/pkg/geowidget"
)

// MessageType discriminates relay messages
type MessageType string

const (
	// TypeHello is sent by the server on connect and carries the client id
	TypeHello MessageType = "hello"
	// TypeReady is sent by a page once its widget delivered the control API
	TypeReady MessageType = "ready"
	// TypePoint is sent by a page when the user selects a point
	TypePoint MessageType = "point"
	// TypeCommand is sent by the server to drive the widget handle
	TypeCommand MessageType = "command"
	// TypeProps is sent by the server when the widget configuration changes
	TypeProps MessageType = "props"
)

// Message is the JSON envelope exchanged over the relay socket
type Message struct {
	Type    MessageType              `json:"type"`
	Client  string                   `json:"client,omitempty"`
	Point   *geowidget.SelectedPoint `json:"point,omitempty"`
	Command *geowidget.Command       `json:"command,omitempty"`
	Props   *PropsUpdate             `json:"props,omitempty"`
}

// PropsUpdate carries the re-renderable widget configuration
type PropsUpdate struct {
	Token    string               `json:"token,omitempty"`
	Language geowidget.Language   `json:"language,omitempty"`
	Config   geowidget.ConfigMode `json:"config,omitempty"`
}

// Selection is a point selected on one of the connected pages
type Selection struct {
	Client string                  `json:"client"`
	Point  geowidget.SelectedPoint `json:"point"`
	At     time.Time               `json:"at"`
}

// Encode marshals m
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", m.Type, err)
	}
	return data, nil
}

// Decode parses a relay message and checks that its payload matches the type
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	switch m.Type {
	case TypeHello, TypeReady:
	case TypePoint:
		if m.Point == nil {
			return Message{}, fmt.Errorf("point message without point")
		}
	case TypeCommand:
		if m.Command == nil {
			return Message{}, fmt.Errorf("command message without command")
		}
	case TypeProps:
		if m.Props == nil {
			return Message{}, fmt.Errorf("props message without props")
		}
	default:
		return Message{}, fmt.Errorf("unknown message type %q", m.Type)
	}
	return m, nil
}

// BootElementID is the id of the JSON script element holding the Boot config
const BootElementID = "geowidget-boot"

// Boot is embedded in the served page and read by the wasm client on start
type Boot struct {
	Relay          string                `json:"relay"`
	Widget         PropsUpdate           `json:"widget"`
	Environment    geowidget.Environment `json:"environment,omitempty"`
	Class          string                `json:"class,omitempty"`
	ContainerAttrs map[string]string     `json:"containerAttrs,omitempty"`
	Attrs          map[string]string     `json:"attrs,omitempty"`
	Debug          bool                  `json:"debug,omitempty"`
}
