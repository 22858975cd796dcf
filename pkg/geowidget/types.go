package geowidget

import (
	"fmt"

	"github.com/recera/geowidget/pkg/vango/vdom"
)

const (
	// TagName is the custom element registered by the geowidget script
	TagName = "inpost-geowidget"

	// ReadyEvent is dispatched once by the element when its control API is available
	ReadyEvent = "inpost.geowidget.init"
)

// Language is a UI language supported by the widget
type Language string

const (
	LanguagePL Language = "pl"
	LanguageEN Language = "en"
	LanguageUK Language = "uk"
)

// Languages lists the supported languages, default first
var Languages = []Language{LanguagePL, LanguageEN, LanguageUK}

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	for _, v := range Languages {
		if v == l {
			return true
		}
	}
	return false
}

// ParseLanguage converts s into a Language. The empty string yields the default.
func ParseLanguage(s string) (Language, error) {
	if s == "" {
		return Languages[0], nil
	}
	if l := Language(s); l.Valid() {
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// ConfigMode selects the widget workflow
type ConfigMode string

const (
	ConfigParcelCollect        ConfigMode = "parcelCollect"
	ConfigParcelCollectPayment ConfigMode = "parcelCollectPayment"
	ConfigParcelCollect247     ConfigMode = "parcelCollect247"
	ConfigParcelSend           ConfigMode = "parcelSend"
)

// ConfigModes lists the supported configuration modes, default first
var ConfigModes = []ConfigMode{
	ConfigParcelCollect,
	ConfigParcelCollectPayment,
	ConfigParcelCollect247,
	ConfigParcelSend,
}

// Valid reports whether m is a supported configuration mode
func (m ConfigMode) Valid() bool {
	for _, v := range ConfigModes {
		if v == m {
			return true
		}
	}
	return false
}

// ParseConfigMode converts s into a ConfigMode. The empty string yields the default.
func ParseConfigMode(s string) (ConfigMode, error) {
	if s == "" {
		return ConfigModes[0], nil
	}
	if m := ConfigMode(s); m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownConfig, s)
}

// ContainerProps customizes the wrapping div. Class is written as the
// container's class attribute and takes precedence over Attrs["class"].
type ContainerProps struct {
	Class string
	Attrs vdom.Props
}

// Props configure a Widget
type Props struct {
	// Token authenticates the widget against the points API. Required.
	Token string

	// Language defaults to LanguagePL
	Language Language

	// Config defaults to ConfigParcelCollect
	Config ConfigMode

	// Container customizes the wrapping div
	Container *ContainerProps

	// OnPoint is registered with the widget when it becomes ready and is
	// invoked for every point the user selects
	OnPoint func(SelectedPoint)

	// Ref receives the imperative handle on mount and nil on unmount. Each
	// Update of a mounted widget moves the handle from the old Ref to the new.
	Ref func(Handle)

	// Attrs pass through unmodified onto the custom element
	Attrs vdom.Props
}

// withDefaults fills omitted configuration values
func (p Props) withDefaults() Props {
	if p.Language == "" {
		p.Language = Languages[0]
	}
	if p.Config == "" {
		p.Config = ConfigModes[0]
	}
	return p
}

// Validate checks the configuration values. Rendering never fails; hosts
// call Validate where they load configuration.
func (p Props) Validate() error {
	p = p.withDefaults()
	if p.Token == "" {
		return ErrMissingToken
	}
	if !p.Language.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, p.Language)
	}
	if !p.Config.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownConfig, p.Config)
	}
	return nil
}
