package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger() (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	config := DefaultConfig("storefront-test")
	config.Level = LevelDebug
	config.Output = buf
	return New(config), buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestSessionOpLogsOperationFields(t *testing.T) {
	logger, buf := newBufferedLogger()

	logger.SessionOp(context.Background(), "save_cart", "session-abc1", 3*time.Millisecond, true)

	entry := lastEntry(t, buf)
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "save_cart", entry["operation"])
	assert.Equal(t, "session-abc1", entry["sessionId"])
	assert.Equal(t, true, entry["success"])
}

func TestSessionOpFailureLogsAtErrorLevel(t *testing.T) {
	logger, buf := newBufferedLogger()

	logger.SessionOp(context.Background(), "save_cart", "session-abc1", time.Millisecond, false)

	assert.Equal(t, "ERROR", lastEntry(t, buf)["level"])
}

func TestKafkaPublishLogsTopicAndEventType(t *testing.T) {
	logger, buf := newBufferedLogger()

	logger.KafkaPublish(context.Background(), "shop.orders.events", "shop.order.placed", true, 2*time.Millisecond)

	entry := lastEntry(t, buf)
	assert.Equal(t, "shop.orders.events", entry["topic"])
	assert.Equal(t, "shop.order.placed", entry["eventType"])
	assert.Equal(t, true, entry["success"])
}

func TestKafkaConsumeLogsPartitionAndOffset(t *testing.T) {
	logger, buf := newBufferedLogger()

	logger.KafkaConsume(context.Background(), "shop.catalog.events", "shop.catalog.product-upserted", 2, 41)

	entry := lastEntry(t, buf)
	assert.Equal(t, "shop.catalog.events", entry["topic"])
	assert.Equal(t, 2.0, entry["partition"])
	assert.Equal(t, 41.0, entry["offset"])
}

func TestGeocodeLookupFailureLogsAtWarnLevel(t *testing.T) {
	logger, buf := newBufferedLogger()

	logger.GeocodeLookup(context.Background(), "forward", "12 MG Road", time.Millisecond, false)

	entry := lastEntry(t, buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "forward", entry["direction"])
	assert.Equal(t, "12 MG Road", entry["query"])
}
