package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/unit-converter-service/internal/codec"
	"github.com/couchcryptid/unit-converter-service/internal/domain"
	"github.com/couchcryptid/unit-converter-service/internal/observability"
)

const contentTypeHeader = "content-type"

// DecodeError marks a source message whose payload could not be read, either
// because its content type is unsupported or because it is malformed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode conversion request: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err came from reading a source payload.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// ConversionTransformer implements Transformer by resolving each request
// against a Converter. Results are encoded with the request's codec.
type ConversionTransformer struct {
	converter *domain.Converter
	fallback  codec.Codec
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewTransformer creates a ConversionTransformer. fallback decodes messages
// that carry no content-type header.
func NewTransformer(converter *domain.Converter, fallback codec.Codec, metrics *observability.Metrics, logger *slog.Logger) *ConversionTransformer {
	return &ConversionTransformer{
		converter: converter,
		fallback:  fallback,
		metrics:   metrics,
		logger:    logger,
	}
}

func (t *ConversionTransformer) Transform(_ context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	c := t.fallback
	if ct := raw.Headers[contentTypeHeader]; ct != "" {
		var err error
		if c, err = codec.ForContentType(ct); err != nil {
			return domain.OutputMessage{}, &DecodeError{Err: err}
		}
	}

	var req domain.ConversionRequest
	if err := c.Unmarshal(raw.Value, &req); err != nil {
		return domain.OutputMessage{}, &DecodeError{Err: err}
	}
	if req.ID == "" && len(raw.Key) > 0 {
		req.ID = string(raw.Key)
	}

	res := t.converter.Resolve(req)
	t.metrics.ObserveConversion(t.categoryLabel(res.Category), res.Outcome())
	if res.Error != nil {
		t.logger.Debug("conversion failed",
			"id", res.ID,
			"kind", res.Error.Kind,
			"error", res.Error.Message,
		)
	}

	data, err := c.Marshal(res)
	if err != nil {
		return domain.OutputMessage{}, fmt.Errorf("encode conversion result: %w", err)
	}

	return domain.OutputMessage{
		ID:          res.ID,
		Category:    res.Category,
		Outcome:     res.Outcome(),
		ContentType: c.ContentType(),
		Value:       data,
		ProcessedAt: res.ProcessedAt,
	}, nil
}

func (t *ConversionTransformer) categoryLabel(name string) string {
	if _, err := t.converter.Table().Category(name); err != nil {
		return "unknown"
	}
	return name
}
