package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Config
		wantErr string
	}{
		{name: "empty", in: "", want: Default()},
		{
			name: "partial",
			in:   "show_words: true\nwidth: 100\n",
			want: Config{Color: true, LogLevel: "info", Width: 100, ShowWords: true, ResolveLabels: true},
		},
		{
			name: "override defaults",
			in:   "color: false\nresolve_labels: false\nshow_addresses: true\nlog_level: debug\n",
			want: Config{LogLevel: "debug", ShowAddresses: true},
		},
		{name: "bad level", in: "log_level: loud\n", wantErr: "unknown log_level"},
		{name: "negative width", in: "width: -1\n", wantErr: "negative"},
		{name: "bad yaml", in: "width: [\n", wantErr: "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.in))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadMissingDefault(t *testing.T) {
	t.Setenv("WOBJ_CONFIG", "")
	t.Setenv("WOBJ_NO_COLOR", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadSources(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("WOBJ_NO_COLOR", "")
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "wobj"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "wobj", "config.yaml"), []byte("width: 10\n"), 0o644))

	env := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(env, []byte("width: 20\n"), 0o644))
	flag := filepath.Join(t.TempDir(), "flag.yaml")
	require.NoError(t, os.WriteFile(flag, []byte("width: 30\n"), 0o644))

	t.Setenv("WOBJ_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)

	t.Setenv("WOBJ_CONFIG", env)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Width)

	cfg, err = Load(flag)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open config")
}

func TestNoColorEnv(t *testing.T) {
	t.Setenv("WOBJ_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("WOBJ_NO_COLOR", "1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Color)
}
