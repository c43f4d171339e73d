package prediction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"discts/config"
	"discts/metrics"
	"discts/utils"

	"go.uber.org/zap"
)

// Gateway runs the external sales prediction script. The script is called
// as `<interpreter> <script> <productName> <year> <month>` and must print a
// single number on stdout.
type Gateway struct {
	Interpreter string
	Script      string
	Timeout     time.Duration
}

func NewGateway(cfg *config.Config) *Gateway {
	return &Gateway{
		Interpreter: cfg.PredictionInterpreter,
		Script:      cfg.PredictionScript,
		Timeout:     cfg.PredictionTimeout,
	}
}

// ScriptAvailable reports whether the script file exists.
func (g *Gateway) ScriptAvailable() bool {
	info, err := os.Stat(g.Script)
	return err == nil && !info.IsDir()
}

// Run executes the script and parses its output. The child is killed when
// ctx is done or the timeout expires.
func (g *Gateway) Run(ctx context.Context, productName string, year int, month string) (float64, error) {
	if !g.ScriptAvailable() {
		return 0, &utils.AppError{
			Kind:    utils.KindScriptNotFound,
			Message: "Prediction script not found",
			Details: g.Script,
		}
	}

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.Interpreter, g.Script, productName, strconv.Itoa(year), month)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren may hold the pipes open after the kill.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		metrics.PredictionDuration.WithLabelValues("timeout").Observe(elapsed.Seconds())
		zap.L().Warn("Prediction script timed out", zap.String("product", productName), zap.Duration("elapsed", elapsed))
		return 0, utils.NewAppError(utils.KindPredictionFailed, "Prediction failed", fmt.Errorf("script did not finish: %w", ctx.Err()))
	}
	if err != nil {
		metrics.PredictionDuration.WithLabelValues("failed").Observe(elapsed.Seconds())
		detail := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			zap.L().Error("Prediction script exited with error",
				zap.Int("exitCode", exitErr.ExitCode()),
				zap.String("stderr", detail),
			)
		}
		if detail == "" {
			detail = err.Error()
		}
		return 0, &utils.AppError{Kind: utils.KindPredictionFailed, Message: "Prediction failed", Details: detail, Err: err}
	}

	out := strings.TrimSpace(stdout.String())
	value, err := strconv.ParseFloat(out, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		metrics.PredictionDuration.WithLabelValues("invalid").Observe(elapsed.Seconds())
		return 0, &utils.AppError{Kind: utils.KindInvalidResult, Message: "Invalid prediction result", Details: out, Err: err}
	}

	metrics.PredictionDuration.WithLabelValues("ok").Observe(elapsed.Seconds())
	return value, nil
}
