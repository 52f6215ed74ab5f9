package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/idreg/pkg/idreg/name"
	"github.com/randalmurphal/idreg/pkg/idreg/observability"
)

type recordingMetrics struct {
	inserts   map[bool]int
	conflicts int
	labels    []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{inserts: map[bool]int{}}
}

func (m *recordingMetrics) RecordInsert(_ context.Context, label string, named bool) {
	m.inserts[named]++
	m.labels = append(m.labels, label)
}

func (m *recordingMetrics) RecordConflict(_ context.Context, label string) {
	m.conflicts++
	m.labels = append(m.labels, label)
}

func (m *recordingMetrics) RecordSnapshot(context.Context, string, int, int64) {}

var _ observability.MetricsRecorder = (*recordingMetrics)(nil)

func TestDefaultOptions(t *testing.T) {
	o := buildOptions(nil)
	assert.Equal(t, "default", o.label)
	assert.Equal(t, 0, o.capacity)
	assert.Nil(t, o.logger)
	assert.IsType(t, observability.NoopMetrics{}, o.metrics)
}

func TestOptionsIgnoreInvalid(t *testing.T) {
	o := buildOptions([]Option{WithLabel(""), WithCapacity(-1), WithMetrics(nil)})
	assert.Equal(t, "default", o.label)
	assert.Equal(t, 0, o.capacity)
	assert.IsType(t, observability.NoopMetrics{}, o.metrics)
}

func TestWithCapacity(t *testing.T) {
	r := New[uint32, int](WithCapacity(64))
	assert.GreaterOrEqual(t, cap(r.entries), 64)
	assert.Equal(t, 0, r.Len())
}

func TestWithMetrics(t *testing.T) {
	m := newRecordingMetrics()
	r := New[uint32, int](WithMetrics(m), WithLabel("assets"))

	r.AddAnonymous(1)
	_, err := r.AddNamed(name.MustParse("a:b"), 2)
	require.NoError(t, err)
	_, err = r.AddNamed(name.MustParse("a:b"), 3)
	require.Error(t, err)

	assert.Equal(t, 1, m.inserts[false])
	assert.Equal(t, 1, m.inserts[true])
	assert.Equal(t, 1, m.conflicts)
	assert.Equal(t, []string{"assets", "assets", "assets"}, m.labels)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New[uint32, int](WithLogger(logger), WithLabel("symbols"))

	_, err := r.AddNamed(name.MustParse("s:main"), 1)
	require.NoError(t, err)
	_, err = r.AddNamed(name.MustParse("s:main"), 2)
	require.Error(t, err)

	var records []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		records = append(records, m)
	}
	require.Len(t, records, 2)

	assert.Equal(t, "entry added", records[0]["msg"])
	assert.Equal(t, "symbols", records[0]["registry"])
	assert.Equal(t, "s:main", records[0]["name"])

	assert.Equal(t, "duplicate name rejected", records[1]["msg"])
	assert.Equal(t, float64(0), records[1]["existing_index"])
}

func TestFromEntriesLogsBulkLoad(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	FromEntries[uint32](
		[]Entry[int]{{Value: 1}, {Name: name.MustParse("b:x"), Value: 2}},
		WithLogger(logger),
	)

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "registry built from entries", record["msg"])
	assert.Equal(t, float64(2), record["entries"])
	assert.Equal(t, float64(1), record["named"])
}
