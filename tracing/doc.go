// Package tracing wires OpenTelemetry into the approval registry so every
// request, decision and sweep shows up as a span. Applications that do not
// initialise a provider get no-op spans.
package tracing
