package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/recera/geowidget/pkg/geowidget"
	"github.com/recera/geowidget/pkg/vango/vdom"
)

// FileName is the default configuration file
const FileName = "geowidget.yaml"

// ErrInvalidServer is returned when the server section fails validation
var ErrInvalidServer = errors.New("invalid server configuration")

var validate = validator.New()

// Config represents the geowidget.yaml configuration
type Config struct {
	// Widget authentication token
	Token string `yaml:"token"`

	// UI language: pl, en or uk
	Language string `yaml:"language,omitempty"`

	// Widget workflow, e.g. parcelCollect or parcelSend
	Config string `yaml:"config,omitempty"`

	// Asset environment: production or sandbox
	Environment string `yaml:"environment,omitempty"`

	// Wrapping container customization
	Container *ContainerConfig `yaml:"container,omitempty"`

	// Extra attributes written onto the custom element
	Attrs map[string]string `yaml:"attrs,omitempty"`

	// Demo server configuration
	Server *ServerConfig `yaml:"server,omitempty"`
}

// ContainerConfig customizes the div around the widget
type ContainerConfig struct {
	Class string            `yaml:"class,omitempty"`
	Attrs map[string]string `yaml:"attrs,omitempty"`
}

// ServerConfig contains demo server configuration
type ServerConfig struct {
	// Server host
	Host string `yaml:"host,omitempty" validate:"omitempty,hostname_rfc1123|ip"`

	// Server port
	Port int `yaml:"port,omitempty" validate:"min=0,max=65535"`

	// Directory holding main.wasm and wasm_exec.js
	Public string `yaml:"public,omitempty"`

	// Number of recent selections kept in memory
	History int `yaml:"history,omitempty" validate:"min=0,max=10000"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Language:    string(geowidget.LanguagePL),
		Config:      string(geowidget.ConfigParcelCollect),
		Environment: string(geowidget.Production),
		Container: &ContainerConfig{
			Class: "geowidget",
			Attrs: map[string]string{"style": "height: 600px"},
		},
		Server: &ServerConfig{
			Host:    "localhost",
			Port:    8080,
			Public:  "public",
			History: 50,
		},
	}
}

// applyDefaults fills values missing from a loaded file
func (c *Config) applyDefaults() {
	def := Default()
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.Config == "" {
		c.Config = def.Config
	}
	if c.Environment == "" {
		c.Environment = def.Environment
	}
	if c.Server == nil {
		c.Server = def.Server
		return
	}
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.Public == "" {
		c.Server.Public = def.Server.Public
	}
	if c.Server.History == 0 {
		c.Server.History = def.Server.History
	}
}

// Load reads configuration from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the configuration to path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	header := []byte("# geowidget configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks enum values, the token and the server port
func (c *Config) Validate() error {
	if _, err := geowidget.ParseLanguage(c.Language); err != nil {
		return err
	}
	if _, err := geowidget.ParseConfigMode(c.Config); err != nil {
		return err
	}
	if _, err := geowidget.ParseEnvironment(c.Environment); err != nil {
		return err
	}
	if err := c.Props().Validate(); err != nil {
		return err
	}
	if c.Server != nil {
		if err := validate.Struct(c.Server); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidServer, err)
		}
	}
	return nil
}

// Props converts the configuration into widget props
func (c *Config) Props() geowidget.Props {
	p := geowidget.Props{
		Token:    c.Token,
		Language: geowidget.Language(c.Language),
		Config:   geowidget.ConfigMode(c.Config),
		Attrs:    toProps(c.Attrs),
	}
	if c.Container != nil {
		p.Container = &geowidget.ContainerProps{
			Class: c.Container.Class,
			Attrs: toProps(c.Container.Attrs),
		}
	}
	return p
}

// Assets returns the widget asset URLs of the configured environment
func (c *Config) Assets() geowidget.Assets {
	return geowidget.AssetsFor(geowidget.Environment(c.Environment))
}

// Addr returns the server listen address
func (c *Config) Addr() string {
	s := c.Server
	if s == nil {
		s = Default().Server
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func toProps(m map[string]string) vdom.Props {
	if len(m) == 0 {
		return nil
	}
	p := make(vdom.Props, len(m))
	for k, v := range m {
		p[k] = v
	}
	return p
}
