// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

import (
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
)

var EnableDebug bool = false

const (
	// invalid page id
	InvalidPageID = -1
	// invalid transaction id
	InvalidTxnID = -1
	// size of a data page in byte
	PageSize = 4096
	// number of pages cached by the buffer pool
	BufferPoolPageNum = 50
	// payload bytes of a string column (not counting the 4 byte length prefix)
	StringMaxLen = 128
	// default watchdog period of go-deadlock
	DefaultDeadlockTimeout = 30 * time.Second
)

// Config is the runtime configuration. Zero fields in a loaded file keep their defaults.
type Config struct {
	PageSize        int    `toml:"page_size"`
	BufferPoolPages int    `toml:"buffer_pool_pages"`
	StringMaxLen    int    `toml:"string_max_len"`
	DataDir         string `toml:"data_dir"`
	LogLevel        string `toml:"log_level"`
	EnableDebug     bool   `toml:"enable_debug"`
	DeadlockTimeout string `toml:"deadlock_timeout"`
	VirtualStorage  bool   `toml:"virtual_storage"`
}

func DefaultConfig() *Config {
	return &Config{
		PageSize:        PageSize,
		BufferPoolPages: BufferPoolPageNum,
		StringMaxLen:    StringMaxLen,
		DataDir:         "data",
		LogLevel:        "info",
		EnableDebug:     false,
		DeadlockTimeout: DefaultDeadlockTimeout.String(),
		VirtualStorage:  false,
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	loaded := new(Config)
	if err := toml.Unmarshal(data, loaded); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	cfg := DefaultConfig()
	if loaded.PageSize > 0 {
		cfg.PageSize = loaded.PageSize
	}
	if loaded.BufferPoolPages > 0 {
		cfg.BufferPoolPages = loaded.BufferPoolPages
	}
	if loaded.StringMaxLen > 0 {
		cfg.StringMaxLen = loaded.StringMaxLen
	}
	if loaded.DataDir != "" {
		cfg.DataDir = loaded.DataDir
	}
	if loaded.LogLevel != "" {
		cfg.LogLevel = loaded.LogLevel
	}
	if loaded.DeadlockTimeout != "" {
		cfg.DeadlockTimeout = loaded.DeadlockTimeout
	}
	cfg.EnableDebug = loaded.EnableDebug
	cfg.VirtualStorage = loaded.VirtualStorage

	if _, err := time.ParseDuration(cfg.DeadlockTimeout); err != nil {
		return nil, errors.Wrapf(err, "deadlock_timeout %q", cfg.DeadlockTimeout)
	}
	return cfg, nil
}

// ApplyConfig pushes the process wide settings of cfg (logging, debug flag, latch watchdog).
func ApplyConfig(cfg *Config) error {
	if err := SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	EnableDebug = cfg.EnableDebug

	timeout, err := time.ParseDuration(cfg.DeadlockTimeout)
	if err != nil {
		return errors.Wrapf(err, "deadlock_timeout %q", cfg.DeadlockTimeout)
	}
	deadlock.Opts.DeadlockTimeout = timeout
	return nil
}
