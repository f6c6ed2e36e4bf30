package steps

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/liuxd6825/steplog/intercept"
)

const tracerName = "steplog"

// Tracer reports every step as a span. Steps started while another step's
// body runs become child spans.
type Tracer struct {
	tracer   trace.Tracer
	metadata []attribute.KeyValue

	mu   sync.Mutex
	ctxs []context.Context
}

var _ intercept.Stepper = &Tracer{}

// NewTracer returns a stepper creating spans from tp. Root spans are children
// of the span in ctx, if any. metadata is attached to every span.
func NewTracer(ctx context.Context, tp trace.TracerProvider, metadata map[string]string) *Tracer {
	if ctx == nil {
		ctx = context.Background()
	}
	attrs := make([]attribute.KeyValue, 0, len(metadata))
	for k, v := range metadata {
		attrs = append(attrs, attribute.String(k, v))
	}
	return &Tracer{
		tracer:   tp.Tracer(tracerName),
		metadata: attrs,
		ctxs:     []context.Context{ctx},
	}
}

// Step implements intercept.Stepper.
func (t *Tracer) Step(title string, loc *intercept.Location, body func() ([]any, error)) ([]any, error) {
	attrs := append([]attribute.KeyValue(nil), t.metadata...)
	if loc != nil {
		attrs = append(attrs,
			attribute.String("code.filepath", loc.File),
			attribute.Int("code.lineno", loc.Line),
			attribute.String("code.function", loc.Function),
		)
	}

	ctx, span := t.tracer.Start(t.current(), title, trace.WithAttributes(attrs...))
	t.push(ctx)
	defer func() {
		t.pop()
		span.End()
	}()

	out, err := body()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return out, err
}

func (t *Tracer) current() context.Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ctxs[len(t.ctxs)-1]
}

func (t *Tracer) push(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ctxs = append(t.ctxs, ctx)
}

func (t *Tracer) pop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.ctxs) > 1 {
		t.ctxs = t.ctxs[:len(t.ctxs)-1]
	}
}
