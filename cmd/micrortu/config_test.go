package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    config
		wantErr bool
	}{
		{
			name:    "empty file keeps defaults",
			content: "",
			want:    defaultConfig(),
		},
		{
			name: "overrides",
			content: `log_level = "debug"
control_period = "250ms"
memory_limit_pages = 16
steps = 3
parallelism = 2
allow_overwrite = true
`,
			want: config{
				LogLevel:         logrus.DebugLevel,
				ControlPeriod:    250 * time.Millisecond,
				MemoryLimitPages: 16,
				Steps:            3,
				Parallelism:      2,
				AllowOverwrite:   true,
			},
		},
		{
			name:    "period in milliseconds",
			content: "control_period = 20\n",
			want: func() config {
				c := defaultConfig()
				c.ControlPeriod = 20 * time.Millisecond
				return c
			}(),
		},
		{name: "negative period", content: "control_period = -5\n", wantErr: true},
		{name: "bad period", content: "control_period = \"soon\"\n", wantErr: true},
		{name: "bad level", content: "log_level = \"loud\"\n", wantErr: true},
		{name: "zero parallelism", content: "parallelism = 0\n", wantErr: true},
		{name: "not toml", content: "steps = [\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loadConfig(writeFile(t, "micrortu.toml", tt.content))
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("loadConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("loadConfig() of a missing file succeeded")
	}
}
