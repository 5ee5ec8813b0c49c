package server

import (
	"io"
	"os"

	"github.com/iov-one/tokenescrow/errors"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a logger writing to stdout, or to a rotated file if the
// configuration names one. The returned closer must be called on shutdown.
func NewLogger(conf Config) (log.Logger, io.Closer, error) {
	var out io.WriteCloser = nopCloser{os.Stdout}
	if conf.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    conf.LogMaxSizeMB,
			MaxBackups: conf.LogMaxBackups,
			Compress:   true,
		}
	}

	level, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		out.Close()
		return nil, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(out)), level)
	return logger, out, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
