package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reporter is the reporting surface the coordinators depend on. It is always
// injected, never reached through package-level state, so tests can pass a
// Noop and services can wire the Prometheus implementation.
type Reporter interface {
	BookingCreated()
	BookingCancelled()
	SeatConflict()
	CompensationFailure()
	ObserveReservationSeconds(seconds float64)
}

type Noop struct{}

func (Noop) BookingCreated()                     {}
func (Noop) BookingCancelled()                   {}
func (Noop) SeatConflict()                       {}
func (Noop) CompensationFailure()                {}
func (Noop) ObserveReservationSeconds(_ float64) {}

type PrometheusReporter struct {
	registry *prometheus.Registry

	bookingsCreated      prometheus.Counter
	bookingsCancelled    prometheus.Counter
	seatConflicts        prometheus.Counter
	compensationFailures prometheus.Counter
	reservationDuration  prometheus.Histogram
}

func NewPrometheusReporter() *PrometheusReporter {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusReporter{
		registry: registry,
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of bookings confirmed.",
		}),
		bookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Total number of bookings cancelled.",
		}),
		seatConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seat_conflicts_total",
			Help: "Reservation attempts rejected for exhausted capacity or a lost optimistic race.",
		}),
		compensationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seat_compensation_failures_total",
			Help: "Seat releases during rollback or cancellation that did not apply.",
		}),
		reservationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reservation_duration_seconds",
			Help:    "Duration of the full multi-leg reservation protocol.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 3, 5},
		}),
	}

	registry.MustRegister(
		r.bookingsCreated,
		r.bookingsCancelled,
		r.seatConflicts,
		r.compensationFailures,
		r.reservationDuration,
	)

	return r
}

func (r *PrometheusReporter) BookingCreated()      { r.bookingsCreated.Inc() }
func (r *PrometheusReporter) BookingCancelled()    { r.bookingsCancelled.Inc() }
func (r *PrometheusReporter) SeatConflict()        { r.seatConflicts.Inc() }
func (r *PrometheusReporter) CompensationFailure() { r.compensationFailures.Inc() }

func (r *PrometheusReporter) ObserveReservationSeconds(seconds float64) {
	r.reservationDuration.Observe(seconds)
}

// Handler exposes the registry for a /metrics route.
func (r *PrometheusReporter) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
