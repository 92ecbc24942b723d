package conductor

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the OpenTelemetry tracer name used for conductor spans.
const InstrumentationName = "github.com/go-drift/conductor/pkg/conductor"

const (
	opActivateItem   = "ActivateItem"
	opDeactivateItem = "DeactivateItem"
	opCanClose       = "CanClose"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultRefused = "refused"
	ResultAllowed = "allowed"
	ResultError   = "error"
)

var (
	activationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conductor",
		Subsystem: "lifecycle",
		Name:      "activations_total",
		Help:      "Processed item activations by result",
	}, []string{"result"})

	closeGuardTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conductor",
		Subsystem: "lifecycle",
		Name:      "close_guard_total",
		Help:      "Close guard decisions by result",
	}, []string{"result"})

	transitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "conductor",
		Subsystem: "lifecycle",
		Name:      "transition_duration_seconds",
		Help:      "Duration of conductor transitions",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"op"})
)

// ActivationsTotal returns the activation counter, labelled by result.
func ActivationsTotal() *prometheus.CounterVec { return activationsTotal }

// CloseGuardTotal returns the close guard counter, labelled by result.
func CloseGuardTotal() *prometheus.CounterVec { return closeGuardTotal }

func startSpan(ctx context.Context, op, subject string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := otel.Tracer(InstrumentationName).Start(ctx, "conductor."+op,
		trace.WithAttributes(attribute.String("conductor.name", subject)))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		transitionDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func recordActivation(success bool) {
	if success {
		activationsTotal.WithLabelValues(ResultSuccess).Inc()
		return
	}
	activationsTotal.WithLabelValues(ResultRefused).Inc()
}

func recordGuard(result string) {
	closeGuardTotal.WithLabelValues(result).Inc()
}
