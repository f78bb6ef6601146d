package metrics

import "github.com/prometheus/client_golang/prometheus"

// #region recorder

// Recorder implements middleware.Recorder with prometheus counters labeled
// by gate name.
type Recorder struct {
	handled    *prometheus.CounterVec
	suppressed *prometheus.CounterVec
	dispatched *prometheus.CounterVec
	dropped    *prometheus.CounterVec
}

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		handled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gated_actions_handled_total",
			Help: "Actions forwarded to the inner middleware.",
		}, []string{"gate"}),
		suppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gated_actions_suppressed_total",
			Help: "Actions suppressed by the gate.",
		}, []string{"gate"}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gated_outputs_dispatched_total",
			Help: "Inner middleware emissions forwarded to the store.",
		}, []string{"gate"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gated_outputs_dropped_total",
			Help: "Inner middleware emissions dropped by the gate.",
		}, []string{"gate"}),
	}
	reg.MustRegister(r.handled, r.suppressed, r.dispatched, r.dropped)
	return r
}

// ActionHandled increments the handled counter for the named gate.
func (r *Recorder) ActionHandled(gateName string) {
	r.handled.WithLabelValues(gateName).Inc()
}

// ActionSuppressed increments the suppressed counter for the named gate.
func (r *Recorder) ActionSuppressed(gateName string) {
	r.suppressed.WithLabelValues(gateName).Inc()
}

// OutputDispatched increments the dispatched counter for the named gate.
func (r *Recorder) OutputDispatched(gateName string) {
	r.dispatched.WithLabelValues(gateName).Inc()
}

// OutputDropped increments the dropped counter for the named gate.
func (r *Recorder) OutputDropped(gateName string) {
	r.dropped.WithLabelValues(gateName).Inc()
}

// #endregion recorder
