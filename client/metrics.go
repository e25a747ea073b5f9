package client

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	requestSpanName    = "taskboard.client.request"
	requestEventName   = "api.request"
	requestEventDomain = "taskboard.client"
)

// requestMetrics records one REST call as a span plus a structured
// observability event.
type requestMetrics struct {
	logger *log.Logger
	span   trace.Span
	method string
	route  string

	start          time.Time
	sendDuration   time.Duration
	decodeDuration time.Duration
	errorStage     string
}

func newRequestMetrics(ctx context.Context, logger *log.Logger, method, route string) *requestMetrics {
	tracer := otel.Tracer(requestEventDomain)
	_, span := tracer.Start(ctx, requestSpanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	)
	return &requestMetrics{
		logger: logger,
		span:   span,
		method: method,
		route:  route,
		start:  time.Now(),
	}
}

func (m *requestMetrics) ObserveSend(d time.Duration) {
	if d <= 0 {
		return
	}
	m.sendDuration = d
}

func (m *requestMetrics) ObserveDecode(d time.Duration) {
	if d <= 0 {
		return
	}
	m.decodeDuration = d
}

func (m *requestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

// Log finalizes the span and emits the observability event.
func (m *requestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}

	attrs := log.Fields{
		"http.method":      m.method,
		"http.route":       m.route,
		"http.status_code": status,
		"client.total_ms":  durationToMillis(time.Since(m.start)),
	}
	if m.sendDuration > 0 {
		attrs["client.send_ms"] = durationToMillis(m.sendDuration)
	}
	if m.decodeDuration > 0 {
		attrs["client.decode_ms"] = durationToMillis(m.decodeDuration)
	}
	if m.errorStage != "" {
		attrs["client.error_stage"] = m.errorStage
	}
	if err != nil {
		attrs["error"] = err.Error()
	}

	if m.span != nil {
		m.span.SetAttributes(attribute.Int("http.status_code", status))
		if m.errorStage != "" {
			m.span.SetAttributes(attribute.String("client.error_stage", m.errorStage))
		}
		if err != nil {
			m.span.RecordError(err)
			m.span.SetStatus(codes.Error, err.Error())
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	severityText, severityNumber := severityForStatus(status, err)
	if m.logger != nil {
		m.logger.WithFields(log.Fields{
			"event.name":      requestEventName,
			"event.domain":    requestEventDomain,
			"attributes":      map[string]any(attrs),
			"severity_text":   severityText,
			"severity_number": severityNumber,
		}).Debug("observability.event")
	}
}

func severityForStatus(status int, err error) (string, int) {
	switch {
	case err != nil || status >= 500:
		return "ERROR", 17
	case status >= 400:
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
