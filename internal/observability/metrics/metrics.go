package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for the clinic flows. All methods are nil-safe so
// callers can run without a registry in tests.
type Metrics struct {
	appointmentsCreated  prometheus.Counter
	appointmentConflicts prometheus.Counter
	chatMessages         *prometheus.CounterVec
	voiceCalls           *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		appointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "scheduling",
			Name:      "appointments_created_total",
			Help:      "Total appointments persisted after passing the overlap check",
		}),
		appointmentConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "scheduling",
			Name:      "appointment_conflicts_total",
			Help:      "Total bookings rejected by the provider overlap check",
		}),
		chatMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total chat messages by direction",
		}, []string{"direction"}),
		voiceCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "voice",
			Name:      "calls_total",
			Help:      "Total outbound call attempts by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsCreated, m.appointmentConflicts, m.chatMessages, m.voiceCalls)
	return m
}

func (m *Metrics) AppointmentCreated() {
	if m == nil {
		return
	}
	m.appointmentsCreated.Inc()
}

func (m *Metrics) AppointmentConflict() {
	if m == nil {
		return
	}
	m.appointmentConflicts.Inc()
}

func (m *Metrics) ChatMessage(direction string) {
	if m == nil {
		return
	}
	m.chatMessages.WithLabelValues(direction).Inc()
}

func (m *Metrics) VoiceCall(outcome string) {
	if m == nil {
		return
	}
	m.voiceCalls.WithLabelValues(outcome).Inc()
}
