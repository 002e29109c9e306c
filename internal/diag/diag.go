// Package diag wraps zap for the VM driver's diagnostics channel. prn
// output goes to standard output; diagnostics go to standard error, which
// is all this package ever writes to.
package diag

import "go.uber.org/zap"

// New builds a logger writing to stderr, verbose when debug is set.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}
