package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	DefaultDirName    = ".simplesh"
)

const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs afero.Fs

	Prompt      string `json:"prompt"`
	HistoryFile string `json:"history_file" validate:"required"`
	HistorySize int    `json:"history_size" validate:"gte=1"`
	MaxAliases  int    `json:"max_aliases" validate:"gte=1"`
	MaxTokens   int    `json:"max_tokens" validate:"gte=1"`
	// MaxLineLength is the number of characters in the longest accepted line,
	// excluding the line terminator.
	MaxLineLength     int    `json:"max_line_length" validate:"gte=1"`
	MaxAliasDepth     int    `json:"max_alias_depth" validate:"gte=1,lte=1024"`
	SpawnFailureFatal bool   `json:"spawn_failure_fatal"`
	Color             string `json:"color" validate:"oneof=always auto never"`
	EventLog          string `json:"event_log"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		// Configurations that weren't loaded from disk can't write files.
		return afero.NewReadOnlyFs(afero.NewMemMapFs())
	}
	return c.configFs
}

// OpenEventLog opens the event log in an append only state. It returns nil
// if the event log is disabled.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if c.EventLog == "" {
		return nil, nil
	}
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// DefaultDir returns the configuration directory in the user's home.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
