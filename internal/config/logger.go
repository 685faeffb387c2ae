package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a JSON production logger at LOG_LEVEL.
// Output goes to stderr so stdout stays free for command results.
func NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(GetLogLevel())
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
