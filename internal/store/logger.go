package store

import "go.uber.org/zap"

var logger = zap.NewNop()

// InitializeLogger sets the logger for the store package.
func InitializeLogger(l *zap.Logger) {
	logger = l
}
