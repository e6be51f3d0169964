package logger

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the shared application logger: console encoding on stdout
// plus a file sink under ./logs. The directory is created on demand so a
// fresh checkout can boot without extra steps.
func NewLogger() *zap.Logger {
	if err := os.MkdirAll("./logs", 0o755); err != nil {
		panic(err)
	}

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		OutputPaths:      []string{"stdout", "./logs/app.log"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}
