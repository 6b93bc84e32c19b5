package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type httpInstruments struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	streams  metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter, namespace string) (*httpInstruments, error) {
	requests, err := meter.Int64Counter(
		namespace+"_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		namespace+"_http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds, event streams excluded"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	streams, err := meter.Int64UpDownCounter(
		namespace+"_http_active_streams",
		metric.WithDescription("Open server-sent event streams"),
		metric.WithUnit("{stream}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpInstruments{requests: requests, duration: duration, streams: streams}, nil
}

// HTTPMetricsMiddleware counts requests by method, route pattern (/v1/cards/:id, never the raw
// path) and status code. Request durations go to a histogram, except for event streams: those
// live as long as the client stays connected, so they are tracked as active streams instead.
// If the instruments cannot be created the middleware does nothing.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	instruments, err := newHTTPInstruments(meterProvider.Meter(namespace), namespace)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		route := routeLabel(c.FullPath())
		ctx := c.Request.Context()

		streaming := acceptsEventStream(c.GetHeader("Accept"))
		if streaming {
			routeAttr := metric.WithAttributes(attribute.String("path", route))
			instruments.streams.Add(ctx, 1, routeAttr)
			defer instruments.streams.Add(ctx, -1, routeAttr)
		}

		c.Next()

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		instruments.requests.Add(ctx, 1, attrs)
		if !streaming {
			instruments.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		}
	}
}

// routeLabel returns "unknown" for requests that matched no route.
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

func acceptsEventStream(accept string) bool {
	return strings.Contains(accept, "text/event-stream")
}
