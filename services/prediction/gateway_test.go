package prediction

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"discts/models"
	"discts/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates a shell script standing in for the model.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predict.sh")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func newGateway(script string, timeout time.Duration) *Gateway {
	return &Gateway{Interpreter: "/bin/sh", Script: script, Timeout: timeout}
}

func TestGatewayRun(t *testing.T) {
	ctx := context.Background()

	t.Run("parses output", func(t *testing.T) {
		g := newGateway(writeScript(t, "echo \"  42.5\"\n"), 5*time.Second)
		v, err := g.Run(ctx, "Aspirin", 2025, "March")
		require.NoError(t, err)
		assert.Equal(t, 42.5, v)
	})

	t.Run("passes arguments", func(t *testing.T) {
		script := writeScript(t, "[ \"$1\" = \"Aspirin Forte\" ] && [ \"$2\" = \"2025\" ] && [ \"$3\" = \"03\" ] && echo 1 || echo 0\n")
		v, err := newGateway(script, 5*time.Second).Run(ctx, "Aspirin Forte", 2025, "03")
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)
	})

	t.Run("missing script", func(t *testing.T) {
		g := newGateway(filepath.Join(t.TempDir(), "absent.py"), time.Second)
		_, err := g.Run(ctx, "Aspirin", 2025, "March")
		assert.Equal(t, utils.KindScriptNotFound, utils.KindOf(err))
	})

	t.Run("non-zero exit surfaces stderr", func(t *testing.T) {
		g := newGateway(writeScript(t, "echo 'unknown product' >&2\nexit 1\n"), 5*time.Second)
		_, err := g.Run(ctx, "Aspirin", 2025, "March")
		assert.Equal(t, utils.KindPredictionFailed, utils.KindOf(err))
		assert.Contains(t, err.Error(), "unknown product")
	})

	t.Run("not a number", func(t *testing.T) {
		g := newGateway(writeScript(t, "echo lots\n"), 5*time.Second)
		_, err := g.Run(ctx, "Aspirin", 2025, "March")
		assert.Equal(t, utils.KindInvalidResult, utils.KindOf(err))
	})

	t.Run("non-finite", func(t *testing.T) {
		g := newGateway(writeScript(t, "echo NaN\n"), 5*time.Second)
		_, err := g.Run(ctx, "Aspirin", 2025, "March")
		assert.Equal(t, utils.KindInvalidResult, utils.KindOf(err))
	})

	t.Run("timeout kills the child", func(t *testing.T) {
		g := newGateway(writeScript(t, "exec sleep 10\n"), 200*time.Millisecond)
		start := time.Now()
		_, err := g.Run(ctx, "Aspirin", 2025, "March")
		assert.Equal(t, utils.KindPredictionFailed, utils.KindOf(err))
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestPredict(t *testing.T) {
	ctx := context.Background()
	svc := &DefaultPredictionService{Gateway: newGateway(writeScript(t, "echo 17\n"), 5*time.Second)}

	t.Run("loose input", func(t *testing.T) {
		p, err := svc.Predict(ctx, models.PredictionRequest{ProductName: "Aspirin", Year: "2025", Month: 3})
		require.NoError(t, err)
		assert.Equal(t, &models.Prediction{Product: "Aspirin", Year: 2025, Month: "3", PredictedSales: 17}, p)
	})

	t.Run("json number year", func(t *testing.T) {
		p, err := svc.Predict(ctx, models.PredictionRequest{ProductName: "Aspirin", Year: float64(2024), Month: "December"})
		require.NoError(t, err)
		assert.Equal(t, 2024, p.Year)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Predict(ctx, models.PredictionRequest{ProductName: "Aspirin", Year: 2025})
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	})

	t.Run("bad year", func(t *testing.T) {
		_, err := svc.Predict(ctx, models.PredictionRequest{ProductName: "Aspirin", Year: "next", Month: "March"})
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	})

	t.Run("health", func(t *testing.T) {
		h := svc.Health()
		assert.Equal(t, "ok", h.Status)
		assert.True(t, h.ScriptAvailable)
	})
}
