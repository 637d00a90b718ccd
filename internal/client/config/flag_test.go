package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cli",
			"-n", "compras", "-f", "/Docs", "-m", "http://graph.local", "-t", "5", "-l", "debug", "-token", "abc",
			"upload", "42", "a.pdf",
		}, expected: &Config{
			SiteName:     "compras",
			BaseFolder:   "/Docs",
			GraphBaseURL: "http://graph.local",
			GraphTimeout: 5 * time.Second,
			LogLevel:     "debug",
			Token:        "abc",
		}},
		{name: "subcommand only", args: []string{"cli", "find", "42"}, expected: &Config{}},
		{name: "bad int", args: []string{"cli", "-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			cfg := &Config{}

			if tt.expectPanic {
				assert.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
