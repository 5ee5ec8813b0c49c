package utils

import (
	"time"

	"github.com/iov-one/tokenescrow"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ tokenescrow.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (Logging) Check(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Checker) (*tokenescrow.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (Logging) Deliver(ctx tokenescrow.Context, store tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Deliverer) (*tokenescrow.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

func logDuration(ctx tokenescrow.Context, tx tokenescrow.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := tokenescrow.GetLogger(ctx).With(
		"path", txPath(tx),
		"duration", delta/time.Microsecond)

	if err != nil {
		logger.With("err", err).Error(msg)
		return
	}
	// The message can be empty, the entry still carries the path and the
	// duration.
	if lowPrio {
		logger.Debug(msg)
	} else {
		logger.Info(msg)
	}
}

// txPath is tokenescrow.GetPath that accepts a nil transaction.
func txPath(tx tokenescrow.Tx) string {
	if tx == nil {
		return "(missing)"
	}
	return tokenescrow.GetPath(tx)
}
