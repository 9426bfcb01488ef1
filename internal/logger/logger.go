// Package logger initializes the global zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds a logger for the given environment ("production" gets JSON
// sampling config, anything else a development console logger) and installs
// it as the zap global.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	if environment == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
