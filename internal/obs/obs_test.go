package obs

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_JSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupLogger(&buf, "json", false)
	slog.Info("data file loaded", "products", 3)
	slog.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "data file loaded", entry["msg"])
	assert.Equal(t, float64(3), entry["products"])
}

func TestSetupLogger_VerboseText(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupLogger(&buf, "text", true)
	slog.Debug("visible")

	assert.Contains(t, buf.String(), "msg=visible")
}

func TestRecordAction(t *testing.T) {
	before := testutil.ToFloat64(actionsTotal.WithLabelValues("approve", "ok"))
	RecordAction("approve", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(actionsTotal.WithLabelValues("approve", "ok")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	Init()
	Init()
	SetPending(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sellbot_pending_requests 3")
}
