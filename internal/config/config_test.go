package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.OutputDir != "./output" || c.LogLevel != "info" || c.LogFormat != "console" {
		t.Errorf("Default() = %+v", c)
	}
	if c.FileNameFormat != "{event}_{timestamp}.xlsx" || c.Timezone != "UTC" {
		t.Errorf("Default() = %+v", c)
	}
	if err := validate(c); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
output_dir: ./exports
log_level: debug
log_format: json
compression_level: 9
timezone: Europe/Berlin
operator: Front desk
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.OutputDir != "./exports" || c.LogFormat != "json" || c.CompressionLevel != 9 || c.Operator != "Front desk" {
		t.Errorf("Load() = %+v", c)
	}
	if c.FileNameFormat != "{event}_{timestamp}.xlsx" {
		t.Errorf("default file_name_format not applied: %q", c.FileNameFormat)
	}
	if got := c.Location().String(); got != "Europe/Berlin" {
		t.Errorf("Location() = %s", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "log level", body: "log_level: loud", wantErr: "log_level"},
		{name: "log format", body: "log_format: xml", wantErr: "log_format"},
		{name: "compression", body: "compression_level: 11", wantErr: "compression_level"},
		{name: "timezone", body: "timezone: Mars/Olympus", wantErr: "timezone"},
		{name: "file name", body: `file_name_format: "{event}.csv"`, wantErr: "file_name_format"},
		{name: "yaml", body: "output_dir: [", wantErr: "failed to parse config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	c := Default()
	c.OutputDir = filepath.Join(root, "out", "nested")
	c.TempDir = filepath.Join(root, "tmp")

	if err := c.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	for _, dir := range []string{c.OutputDir, c.TempDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", dir)
		}
	}
}
