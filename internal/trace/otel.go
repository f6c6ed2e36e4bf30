// Package trace builds the tracer provider steps are exported through.
//
// The traces output is a single line: `none`, or
// `otel[=<endpoint>][,proto=http|grpc][,header.<Name>=<value>]`. A bare
// host:port endpoint keeps the protocol (grpc unless proto says otherwise);
// an http(s) URL selects the http protocol and carries the URL path.
package trace

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/liuxd6825/steplog/internal/build"
)

// Errors returned by ParseOutput.
var (
	ErrInvalidTracesOutput    = errors.New("invalid traces output")
	ErrInvalidProto           = errors.New("invalid protocol")
	ErrInvalidURLScheme       = errors.New("invalid URL scheme")
	ErrInvalidGRPCWithURLPath = errors.New("grpc protocol does not support URL path")
)

// Protocols of the OTLP exporter.
const (
	ProtoGRPC = "grpc"
	ProtoHTTP = "http"
)

// Output is a parsed traces output line. The zero value exports nothing.
type Output struct {
	Enabled  bool
	Proto    string
	Endpoint string
	URLPath  string
	Insecure bool
	Headers  map[string]string
}

func defaultOutput() Output {
	return Output{
		Enabled:  true,
		Proto:    ProtoGRPC,
		Endpoint: "127.0.0.1:4317",
		Insecure: true,
		Headers:  map[string]string{},
	}
}

// ParseOutput parses a traces output line.
func ParseOutput(line string) (Output, error) {
	line = strings.TrimSpace(line)
	if line == "" || line == "none" {
		return Output{}, nil
	}

	out := defaultOutput()
	tokens := strings.Split(line, ",")
	if name, _, _ := strings.Cut(tokens[0], "="); strings.TrimSpace(name) != "otel" {
		return Output{}, fmt.Errorf("%w %q", ErrInvalidTracesOutput, name)
	}

	for i, token := range tokens {
		key, value, _ := strings.Cut(token, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		switch {
		case i == 0:
			if value == "" {
				continue
			}
			if err := out.setEndpoint(value); err != nil {
				return Output{}, fmt.Errorf("couldn't parse the otel endpoint: %w", err)
			}
		case key == "proto":
			if value != ProtoHTTP && value != ProtoGRPC {
				return Output{}, fmt.Errorf("%w: %q", ErrInvalidProto, value)
			}
			out.Proto = value
		case strings.HasPrefix(key, "header."):
			out.Headers[strings.TrimPrefix(key, "header.")] = value
		default:
			return Output{}, fmt.Errorf("unknown otel config key %s", key)
		}
	}

	if out.Proto == ProtoGRPC && out.URLPath != "" {
		return Output{}, ErrInvalidGRPCWithURLPath
	}
	return out, nil
}

func (o *Output) setEndpoint(s string) error {
	if !strings.Contains(s, "://") {
		o.Endpoint = s
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q", ErrInvalidURLScheme, u.Scheme)
	}
	o.Proto = ProtoHTTP
	o.Endpoint = u.Host
	o.URLPath = u.Path
	o.Insecure = u.Scheme == "http"
	return nil
}

// TracerProvider is a trace.TracerProvider that must be shut down to flush
// the spans of a run.
type TracerProvider struct {
	trace.TracerProvider
	shutdown func(ctx context.Context) error
}

// Shutdown flushes pending spans and releases the exporter.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.shutdown(ctx)
}

// NewNoopTracerProvider returns a TracerProvider that records nothing.
func NewNoopTracerProvider() *TracerProvider {
	return &TracerProvider{
		TracerProvider: noop.NewTracerProvider(),
		shutdown:       func(context.Context) error { return nil },
	}
}

// NewTracerProvider returns a TracerProvider batching spans to the OTLP
// exporter described by out, or a no-op one when out is disabled.
func NewTracerProvider(ctx context.Context, out Output) (*TracerProvider, error) {
	if !out.Enabled {
		return NewNoopTracerProvider(), nil
	}

	var client otlptrace.Client
	switch out.Proto {
	case ProtoHTTP:
		client = httpClient(out)
	case ProtoGRPC:
		client = grpcClient(out)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidProto, out.Proto)
	}

	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("creating the span exporter: %w", err)
	}
	prov := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("steplog"),
			semconv.ServiceVersion(build.Version),
		)),
	)
	return &TracerProvider{TracerProvider: prov, shutdown: prov.Shutdown}, nil
}

func httpClient(out Output) otlptrace.Client {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(out.Endpoint),
		otlptracehttp.WithHeaders(out.Headers),
	}
	if out.URLPath != "" {
		opts = append(opts, otlptracehttp.WithURLPath(out.URLPath))
	}
	if out.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return otlptracehttp.NewClient(opts...)
}

func grpcClient(out Output) otlptrace.Client {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(out.Endpoint),
		otlptracegrpc.WithHeaders(out.Headers),
	}
	if out.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return otlptracegrpc.NewClient(opts...)
}

// FromConfigLine parses line and builds its TracerProvider.
func FromConfigLine(ctx context.Context, line string) (*TracerProvider, error) {
	out, err := ParseOutput(line)
	if err != nil {
		return nil, err
	}
	return NewTracerProvider(ctx, out)
}
