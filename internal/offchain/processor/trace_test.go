package processor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"contactledger/internal/offchain/models"
	"contactledger/internal/offchain/processor"
	"contactledger/internal/platform/logger"
)

func TestProcessEpochSpans(t *testing.T) {
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	h := newHarness()
	h.processor = processor.New(h.queue, h.checkpoint, h.locker, applierFunc(func(context.Context, models.Request) error { return nil }),
		processor.WithLogger(logger.Discard()),
		processor.WithTracer(tp.Tracer("test")),
	)
	require.NoError(t, h.checkpoint.Commit(ctx, 3))
	require.NoError(t, h.queue.Enqueue(ctx, models.AddToUUIDPool("uuid-1")))

	_, err := h.processor.ProcessEpoch(ctx, 6)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	var root sdktrace.ReadOnlySpan
	var epochs []int64
	for _, s := range spans {
		switch s.Name() {
		case "ocw.process_epoch":
			root = s
		case "ocw.epoch":
			for _, kv := range s.Attributes() {
				if kv.Key == attribute.Key("ocw.epoch") {
					epochs = append(epochs, kv.Value.AsInt64())
				}
			}
		}
	}
	require.NotNil(t, root)
	assert.Contains(t, root.Attributes(), attribute.Int64("ocw.current_epoch", 6))
	assert.ElementsMatch(t, []int64{4, 5}, epochs)
	for _, s := range spans {
		if s.Name() == "ocw.epoch" {
			assert.Equal(t, root.SpanContext().SpanID(), s.Parent().SpanID())
		}
	}
}

type applierFunc func(context.Context, models.Request) error

func (f applierFunc) Apply(ctx context.Context, req models.Request) error { return f(ctx, req) }
