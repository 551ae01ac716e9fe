package utils

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the process-wide zap logger. Production config when
// ENV=prod, development config (console encoder, debug level) otherwise.
func NewLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
