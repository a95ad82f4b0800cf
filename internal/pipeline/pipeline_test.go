package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/unit-converter-service/internal/codec"
	"github.com/couchcryptid/unit-converter-service/internal/domain"
	"github.com/couchcryptid/unit-converter-service/internal/observability"
	"github.com/couchcryptid/unit-converter-service/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var fixedTime = time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawMessage
	err     error
	calls   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawMessage, error) {
	i := int(m.calls.Add(1) - 1)
	if m.err != nil {
		return nil, m.err
	}
	if i < len(m.batches) {
		return m.batches[i], nil
	}
	// block until context cancelled to simulate waiting for messages
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockLoader struct {
	loaded []domain.OutputMessage
	err    error
	calls  int
}

func (m *mockLoader) LoadBatch(_ context.Context, msgs []domain.OutputMessage) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, msgs...)
	return nil
}

type failingTransformer struct {
	err error
}

func (m *failingTransformer) Transform(_ context.Context, _ domain.RawMessage) (domain.OutputMessage, error) {
	return domain.OutputMessage{}, m.err
}

func newTestTransformer(metrics *observability.Metrics) *pipeline.ConversionTransformer {
	return pipeline.NewTransformer(domain.NewConverter(nil), codec.JSON, metrics, slog.Default())
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(fixedTime))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	freezeClock(t)

	committed := false
	raw := makeRawMessage(t, domain.ConversionRequest{
		ID:       "req-1",
		Category: "Length",
		From:     "Kilometers (km)",
		To:       "Meters (m)",
		Value:    "1",
	})
	raw.Commit = func(_ context.Context) error {
		committed = true
		return nil
	}

	metrics := observability.NewMetricsForTesting()
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{batches: [][]domain.RawMessage{{raw}}}, newTestTransformer(metrics), ldr,
		slog.Default(), metrics, 10)

	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.loaded, 1)
	out := ldr.loaded[0]
	assert.Equal(t, "req-1", out.ID)
	assert.Equal(t, "Length", out.Category)
	assert.Equal(t, "ok", out.Outcome)
	assert.Equal(t, codec.ContentTypeJSON, out.ContentType)
	assert.True(t, committed)

	var got domain.ConversionResult
	require.NoError(t, json.Unmarshal(out.Value, &got))
	want := domain.ConversionResult{
		ID:              "req-1",
		Category:        "Length",
		From:            "Kilometers (km)",
		To:              "Meters (m)",
		Input:           "1",
		Value:           1,
		Result:          1000,
		FormattedValue:  "1.0000",
		FormattedResult: "1,000.0000",
		Calculation:     "Calculation: (1.0000 Kilometers (km) * 1000.0) / 1.0 ≈ 1,000.0000 Meters (m)",
		ProcessedAt:     fixedTime,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MessagesConsumed))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MessagesProduced))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Conversions.WithLabelValues("Length", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PipelineRunning))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockExtractor{}, newTestTransformer(metrics), ldr, slog.Default(), metrics, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_PoisonPillIsSkippedAndCommitted(t *testing.T) {
	committed := false
	raw := domain.RawMessage{
		Value: []byte("not json"),
		Commit: func(_ context.Context) error {
			committed = true
			return nil
		},
	}

	metrics := observability.NewMetricsForTesting()
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{batches: [][]domain.RawMessage{{raw}}}, newTestTransformer(metrics), ldr,
		slog.Default(), metrics, 10)

	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.Zero(t, ldr.calls, "nothing to load")
	assert.True(t, committed)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DecodeErrors))
	assert.Zero(t, testutil.ToFloat64(metrics.TransformErrors))
}

func TestPipeline_Run_EncodeFailureCountsSeparately(t *testing.T) {
	committed := false
	raw := domain.RawMessage{
		Value: []byte(`{}`),
		Commit: func(_ context.Context) error {
			committed = true
			return nil
		},
	}

	metrics := observability.NewMetricsForTesting()
	ldr := &mockLoader{}
	tfm := &failingTransformer{err: errors.New("encode conversion result: unsupported value")}
	p := pipeline.New(&mockExtractor{batches: [][]domain.RawMessage{{raw}}}, tfm, ldr, slog.Default(), metrics, 10)

	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.loaded)
	assert.True(t, committed)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TransformErrors))
	assert.Zero(t, testutil.ToFloat64(metrics.DecodeErrors))
}

func TestPipeline_Run_EngineErrorBecomesResult(t *testing.T) {
	raw := makeRawMessage(t, domain.ConversionRequest{
		ID:       "req-bad",
		Category: "Length",
		From:     "Meters (m)",
		To:       "Feet (ft)",
		Value:    "abc",
	})

	metrics := observability.NewMetricsForTesting()
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{batches: [][]domain.RawMessage{{raw}}}, newTestTransformer(metrics), ldr,
		slog.Default(), metrics, 10)

	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "invalid_input", ldr.loaded[0].Outcome)

	var got domain.ConversionResult
	require.NoError(t, json.Unmarshal(ldr.loaded[0].Value, &got))
	require.NotNil(t, got.Error)
	assert.Equal(t, domain.KindInvalidInput, got.Error.ErrorKind())
	assert.Zero(t, testutil.ToFloat64(metrics.DecodeErrors))
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	committed := false
	raw := makeRawMessage(t, domain.ConversionRequest{Category: "Time", From: "Hours (hr)", To: "Seconds (s)", Value: "1"})
	raw.Commit = func(_ context.Context) error {
		committed = true
		return nil
	}

	metrics := observability.NewMetricsForTesting()
	ldr := &mockLoader{err: errors.New("broker unavailable")}
	p := pipeline.New(&mockExtractor{batches: [][]domain.RawMessage{{raw}}}, newTestTransformer(metrics), ldr,
		slog.Default(), metrics, 10)

	runFor(t, p, 300*time.Millisecond)

	assert.Equal(t, 1, ldr.calls)
	assert.False(t, committed)
	assert.Zero(t, testutil.ToFloat64(metrics.MessagesProduced))
}

func TestPipeline_Run_ExtractErrorBacksOff(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	ext := &mockExtractor{err: errors.New("fetch failed")}
	p := pipeline.New(ext, newTestTransformer(metrics), &mockLoader{}, slog.Default(), metrics, 10)

	runFor(t, p, 500*time.Millisecond)

	// 200ms then 400ms of backoff fit at most three attempts into 500ms.
	calls := ext.calls.Load()
	assert.GreaterOrEqual(t, calls, int64(2))
	assert.LessOrEqual(t, calls, int64(3))
}

func TestPipeline_CheckReadiness(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockExtractor{}, newTestTransformer(metrics), &mockLoader{}, slog.Default(), metrics, 10)

	require.Error(t, p.CheckReadiness(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return p.CheckReadiness(context.Background()) == nil
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PipelineRunning))

	cancel()
	<-done
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestConversionTransformer_MsgpackContentType(t *testing.T) {
	freezeClock(t)

	data, err := msgpack.Marshal(map[string]any{
		"category": "Temperature",
		"from":     "Celsius (°C)",
		"to":       "Fahrenheit (°F)",
		"value":    100.0,
	})
	require.NoError(t, err)

	tfm := newTestTransformer(observability.NewMetricsForTesting())
	out, err := tfm.Transform(context.Background(), domain.RawMessage{
		Key:     []byte("key-7"),
		Value:   data,
		Headers: map[string]string{"content-type": "application/msgpack"},
	})
	require.NoError(t, err)

	assert.Equal(t, "key-7", out.ID, "message key is the fallback id")
	assert.Equal(t, codec.ContentTypeMsgpack, out.ContentType)
	assert.Equal(t, fixedTime, out.ProcessedAt)

	var got domain.ConversionResult
	require.NoError(t, msgpack.Unmarshal(out.Value, &got))
	assert.Equal(t, 212.0, got.Result)
	assert.Equal(t, "100", got.Input)
	assert.Empty(t, got.Calculation)
}

func TestConversionTransformer_FallbackCodec(t *testing.T) {
	data, err := msgpack.Marshal(domain.ConversionRequest{
		ID:       "req-mp",
		Category: "Speed",
		From:     "Meters per second (m/s)",
		To:       "Meters per second (m/s)",
		Value:    "3",
	})
	require.NoError(t, err)

	tfm := pipeline.NewTransformer(domain.NewConverter(nil), codec.Msgpack, observability.NewMetricsForTesting(), slog.Default())
	out, err := tfm.Transform(context.Background(), domain.RawMessage{Value: data})
	require.NoError(t, err)
	assert.Equal(t, "req-mp", out.ID)
	assert.Equal(t, codec.ContentTypeMsgpack, out.ContentType)
}

func TestConversionTransformer_UnsupportedContentType(t *testing.T) {
	tfm := newTestTransformer(observability.NewMetricsForTesting())
	_, err := tfm.Transform(context.Background(), domain.RawMessage{
		Value:   []byte("<request/>"),
		Headers: map[string]string{"content-type": "application/xml"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application/xml")
	assert.True(t, pipeline.IsDecodeError(err))
}

func TestConversionTransformer_MalformedIsDecodeError(t *testing.T) {
	tfm := newTestTransformer(observability.NewMetricsForTesting())
	_, err := tfm.Transform(context.Background(), domain.RawMessage{Value: []byte("not json")})
	require.Error(t, err)
	assert.True(t, pipeline.IsDecodeError(err))
	assert.False(t, pipeline.IsDecodeError(errors.New("encode conversion result: boom")))
}

func TestConversionTransformer_TemperatureOverflowIsEncoded(t *testing.T) {
	tfm := newTestTransformer(observability.NewMetricsForTesting())

	raw := makeRawMessage(t, domain.ConversionRequest{
		ID:       "req-hot",
		Category: "Temperature",
		From:     "Celsius (°C)",
		To:       "Fahrenheit (°F)",
		Value:    "1e308",
	})
	out, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "invalid_input", out.Outcome)

	var got domain.ConversionResult
	require.NoError(t, json.Unmarshal(out.Value, &got))
	require.NotNil(t, got.Error)
	assert.Contains(t, got.Error.Message, "value out of range")
}

func TestConversionTransformer_UnknownCategoryLabel(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	tfm := newTestTransformer(metrics)

	raw := makeRawMessage(t, domain.ConversionRequest{Category: "Distance", From: "a", To: "b", Value: "1"})
	out, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "config", out.Outcome)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Conversions.WithLabelValues("unknown", "config")))
}

// --- helpers ---

func makeRawMessage(t *testing.T, req domain.ConversionRequest) domain.RawMessage {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return domain.RawMessage{
		Key:     []byte(req.ID),
		Value:   data,
		Headers: map[string]string{"content-type": codec.ContentTypeJSON},
	}
}
