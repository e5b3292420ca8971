// Package metrics exports scan counters in Prometheus format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spicery/streamscan/pkg/scanner"
	"golang.org/x/xerrors"
)

const namespace = "streamscan"

var _ scanner.Observer = (*Scan)(nil)

// Scan holds the counters of one or more scans. Counters are safe for
// concurrent use, so parallel scans may share one Scan.
type Scan struct {
	registry    *prometheus.Registry
	bytes       prometheus.Counter
	completions *prometheus.CounterVec
	inputs      *prometheus.CounterVec
}

// NewScan creates the counters on a private registry.
func NewScan() *Scan {
	s := &Scan{
		registry: prometheus.NewRegistry(),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_scanned_total",
			Help:      "Bytes read from input streams.",
		}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completed pattern matches.",
		}, []string{"pattern"}),
		inputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inputs_total",
			Help:      "Scanned inputs by outcome.",
		}, []string{"outcome"}),
	}
	s.registry.MustRegister(s.bytes, s.completions, s.inputs)
	return s
}

// ObserveBytes implements scanner.Observer.
func (s *Scan) ObserveBytes(n int64) {
	s.bytes.Add(float64(n))
}

// ObserveCompletion implements scanner.Observer.
func (s *Scan) ObserveCompletion(ev scanner.Event) {
	s.completions.WithLabelValues(ev.Pattern).Inc()
}

// ObserveInput counts a finished input; err is the scan error, if any.
func (s *Scan) ObserveInput(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.inputs.WithLabelValues(outcome).Inc()
}

// Registry returns the registry holding the counters.
func (s *Scan) Registry() *prometheus.Registry {
	return s.registry
}

// WriteTextfile writes the counters to path in the text exposition format
// read by node_exporter's textfile collector.
func (s *Scan) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
		return xerrors.Errorf("unable to write metrics to '%s': %w", path, err)
	}
	return nil
}
