package pubsub

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const payloadPreviewLen = 100

func messageAttributes(op, topic string, msg *message.Message) []attribute.KeyValue {
	preview := string(msg.Payload)
	if len(preview) > payloadPreviewLen {
		preview = preview[:payloadPreviewLen] + "..."
	}
	return []attribute.KeyValue{
		attribute.String("messaging.system", "watermill"),
		attribute.String("messaging.operation", op),
		attribute.String("messaging.destination", topic),
		attribute.String("messaging.message_id", msg.UUID),
		attribute.String("user.id", msg.Metadata.Get(metaKeyUserID)),
		attribute.Int("messaging.message_payload_size_bytes", len(msg.Payload)),
		attribute.String("messaging.message_payload_preview", preview),
	}
}

// traceProcess runs fn inside a processing span for msg.
func traceProcess(ctx context.Context, tracer trace.Tracer, msg *message.Message, fn func(context.Context) error) error {
	if parent := msg.Context(); parent != nil {
		if sc := trace.SpanContextFromContext(parent); sc.IsValid() {
			ctx = trace.ContextWithRemoteSpanContext(ctx, sc)
		}
	}
	topic := msg.Metadata.Get(metaKeyTopic)
	spanCtx, span := tracer.Start(ctx, fmt.Sprintf("pubsub.process.%s", topic),
		trace.WithAttributes(messageAttributes("process", topic, msg)...),
	)
	defer span.End()

	if err := fn(spanCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// PublisherTracingMiddleware wraps a watermill publisher with spans.
type PublisherTracingMiddleware struct {
	publisher message.Publisher
	tracer    trace.Tracer
}

// NewPublisherTracingMiddleware creates a traced publisher.
func NewPublisherTracingMiddleware(publisher message.Publisher, tracer trace.Tracer) *PublisherTracingMiddleware {
	return &PublisherTracingMiddleware{publisher: publisher, tracer: tracer}
}

// Publish implements message.Publisher.
func (p *PublisherTracingMiddleware) Publish(topic string, messages ...*message.Message) error {
	spans := make([]trace.Span, 0, len(messages))
	for _, msg := range messages {
		ctx := msg.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		spanCtx, span := p.tracer.Start(ctx, fmt.Sprintf("pubsub.publish.%s", topic),
			trace.WithAttributes(messageAttributes("publish", topic, msg)...),
		)
		msg.SetContext(spanCtx)
		spans = append(spans, span)
	}

	err := p.publisher.Publish(topic, messages...)
	for _, span := range spans {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
	return err
}

// Close implements message.Publisher.
func (p *PublisherTracingMiddleware) Close() error {
	return p.publisher.Close()
}
