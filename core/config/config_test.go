package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 20, cfg.HistorySize)
	assert.Equal(t, 10, cfg.MaxAliases)
	assert.Equal(t, 50, cfg.MaxTokens)
	assert.Equal(t, 513, cfg.MaxLineLength)
	assert.Equal(t, ".hist_list", cfg.HistoryFile)
	assert.True(t, cfg.SpawnFailureFatal)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Configuration)
		wantErr string
	}{
		"default":       {mutate: func(*Configuration) {}},
		"no history":    {mutate: func(c *Configuration) { c.HistorySize = 0 }, wantErr: "history_size"},
		"no aliases":    {mutate: func(c *Configuration) { c.MaxAliases = -1 }, wantErr: "max_aliases"},
		"bad color":     {mutate: func(c *Configuration) { c.Color = "sometimes" }, wantErr: "color"},
		"no file":       {mutate: func(c *Configuration) { c.HistoryFile = "" }, wantErr: "history_file"},
		"deep aliases":  {mutate: func(c *Configuration) { c.MaxAliasDepth = 5000 }, wantErr: "max_alias_depth"},
		"no tokens":     {mutate: func(c *Configuration) { c.MaxTokens = 0 }, wantErr: "max_tokens"},
		"tiny lines ok": {mutate: func(c *Configuration) { c.MaxLineLength = 1 }},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestOpenEventLog_disabled(t *testing.T) {
	cfg := Default()
	cfg.EventLog = ""

	fd, err := cfg.OpenEventLog()
	assert.NoError(t, err)
	assert.Nil(t, fd)
}
