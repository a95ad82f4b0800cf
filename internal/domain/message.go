package domain

import (
	"context"
	"time"
)

// RawMessage is an undecoded conversion request read from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputMessage is an encoded conversion result bound for the sink topic.
type OutputMessage struct {
	ID          string
	Category    string
	Outcome     string
	ContentType string
	Value       []byte
	ProcessedAt time.Time
}
