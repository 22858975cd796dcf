//go:build !js || !wasm

package relay

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles relay metrics
type Metrics struct {
	Clients    prometheus.Gauge
	Ready      prometheus.Gauge
	Messages   *prometheus.CounterVec
	Selections prometheus.Counter
	Commands   *prometheus.CounterVec
	Dropped    prometheus.Counter
}

// NewMetrics constructs the relay metrics and registers them with reg when
// reg is non-nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "geowidget_relay_clients",
			Help: "Connected relay clients",
		}),
		Ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "geowidget_relay_ready_widgets",
			Help: "Connected clients whose widget is ready",
		}),
		Messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geowidget_relay_messages_total",
				Help: "Relay messages by direction and type",
			},
			[]string{"direction", "type"},
		),
		Selections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geowidget_relay_selections_total",
			Help: "Points selected on connected pages",
		}),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geowidget_relay_commands_total",
				Help: "Facade commands broadcast by method",
			},
			[]string{"method"},
		),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geowidget_relay_dropped_total",
			Help: "Outgoing messages dropped because a client buffer was full",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Clients,
			m.Ready,
			m.Messages,
			m.Selections,
			m.Commands,
			m.Dropped,
		)
	}
	return m
}
