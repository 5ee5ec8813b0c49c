package server

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/tokenescrow/errors"
)

// ConfigFileName is the name of the node configuration file inside of the
// home directory.
const ConfigFileName = "escrowd.toml"

// Config is the node configuration shared by the server commands. Chain
// configuration is not part of it, it is read from the genesis file.
type Config struct {
	// Home is the directory holding the application database and the
	// tendermint configuration.
	Home string `toml:"home"`
	// Bind is the address the ABCI server listens on.
	Bind string `toml:"abci_address"`
	// Debug returns full error information in ABCI responses.
	Debug bool `toml:"debug"`
	// MetricsAddress is the address of the prometheus endpoint. Metrics
	// are not served when empty.
	MetricsAddress string `toml:"metrics_address"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
	// LogFile is the path of a rotated log file. Logs go to stdout when
	// empty.
	LogFile string `toml:"log_file"`
	// LogMaxSizeMB is the size a log file can grow to before it is rotated.
	LogMaxSizeMB int `toml:"log_max_size_mb"`
	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups int `toml:"log_max_backups"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig(home string) Config {
	return Config{
		Home:           home,
		Bind:           "tcp://localhost:26658",
		MetricsAddress: "localhost:26660",
		LogLevel:       "info",
		LogMaxSizeMB:   100,
		LogMaxBackups:  5,
	}
}

// LoadConfig reads the configuration file from the home directory. A
// default configuration file is written when none exists.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig(home)
	path := filepath.Join(home, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return conf, WriteConfig(path, conf)
	}

	meta, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "config %s: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return conf, errors.Wrapf(errors.ErrInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if strings.TrimSpace(conf.Home) == "" {
		conf.Home = home
	}
	return conf, conf.Validate()
}

// WriteConfig serializes the configuration as TOML.
func WriteConfig(path string, conf Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(conf); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// Validate returns an error if the configuration cannot be used to start
// a node.
func (c Config) Validate() error {
	if c.Bind == "" {
		return errors.Wrap(errors.ErrEmpty, "abci_address")
	}
	switch c.LogLevel {
	case "debug", "info", "error", "none":
	default:
		return errors.Wrapf(errors.ErrInput, "log_level %q", c.LogLevel)
	}
	if c.LogMaxSizeMB < 0 || c.LogMaxBackups < 0 {
		return errors.Wrap(errors.ErrInput, "log rotation limits must not be negative")
	}
	return nil
}
