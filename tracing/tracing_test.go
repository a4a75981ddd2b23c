package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_RecordsAttributesAndStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	_, span := StartSpan(context.Background(), "approval.cancel")
	span.WithAttributes(map[string]string{"action.id": "action_1"})
	span.AddEvent("hidden")
	EndSpan(span, errors.New("boom"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "approval.cancel", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "action_1", ended[0].Attributes()[0].Value.AsString())
	assert.Len(t, ended[0].Events(), 2) // AddEvent plus the recorded error
}

func TestNilSpanIsSafe(t *testing.T) {
	var span *Span
	span.WithAttributes(map[string]string{"k": "v"})
	span.AddEvent("noop")
	EndSpan(span, nil)
}
