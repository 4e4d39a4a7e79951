package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != "3001" {
		t.Errorf("port = %q, want 3001", c.Port)
	}
	if c.DBPath != "starchart.db" {
		t.Errorf("db_path = %q, want starchart.db", c.DBPath)
	}
	if c.DefaultPIN != "1234" {
		t.Errorf("default_pin = %q, want 1234", c.DefaultPIN)
	}
	if c.Backup.RetentionDays != 30 {
		t.Errorf("retention_days = %d, want 30", c.Backup.RetentionDays)
	}
	if c.TrustProxy {
		t.Error("trust_proxy should default to false")
	}
	if c.Backup.Interval != 0 {
		t.Errorf("interval = %v, want 0", c.Backup.Interval)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "starchart.yaml")
	yaml := `port: "8080"
log_level: debug
timezone: America/Chicago
backup:
  s3_bucket: family-backups
  interval: 24h
`
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("STARCHART_PORT", "9090")
	t.Setenv("STARCHART_BACKUP_S3_ACCESS_KEY", "AKID")
	t.Setenv("STARCHART_TRUST_PROXY", "true")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != "9090" {
		t.Errorf("port = %q, want env override 9090", c.Port)
	}
	if !c.TrustProxy {
		t.Error("trust_proxy = false, want env override true")
	}
	if c.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", c.LogLevel)
	}
	if c.Backup.S3Bucket != "family-backups" {
		t.Errorf("bucket = %q", c.Backup.S3Bucket)
	}
	if c.Backup.S3AccessKey != "AKID" {
		t.Errorf("access key = %q, want AKID", c.Backup.S3AccessKey)
	}
	if c.Backup.Interval != 24*time.Hour {
		t.Errorf("interval = %v, want 24h", c.Backup.Interval)
	}
	loc, err := c.Location()
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if loc.String() != "America/Chicago" {
		t.Errorf("location = %s", loc)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad pin", map[string]string{"STARCHART_DEFAULT_PIN": "12"}},
		{"bad port", map[string]string{"STARCHART_PORT": "http"}},
		{"bad timezone", map[string]string{"STARCHART_TIMEZONE": "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
