package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Model   string        `split_words:"true" required:"true"`
	Retries int           `split_words:"true" default:"3"`
	Timeout time.Duration `split_words:"true" default:"5s"`
}

func TestNewReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGTEST_MODEL=gpt-test\nCFGTEST_RETRIES=7\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("CFGTEST_MODEL")
		os.Unsetenv("CFGTEST_RETRIES")
	})

	conf, err := New[sampleConfig]("CFGTEST", WithEnvFile(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Model != "gpt-test" {
		t.Fatalf("Model = %q, want gpt-test", conf.Model)
	}
	if conf.Retries != 7 {
		t.Fatalf("Retries = %d, want 7", conf.Retries)
	}
	if conf.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %s, want 5s", conf.Timeout)
	}
}

func TestNewKeepsExistingEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGKEEP_MODEL=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CFGKEEP_MODEL", "from-env")

	conf, err := New[sampleConfig]("CFGKEEP", WithEnvFile(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Model != "from-env" {
		t.Fatalf("Model = %q, want from-env", conf.Model)
	}
}

func TestNewMissingExplicitFile(t *testing.T) {
	_, err := New[sampleConfig]("CFGMISSING", WithEnvFile(filepath.Join(t.TempDir(), "nope.env")))
	if err == nil {
		t.Fatal("expected error for missing explicit env file")
	}
}

func TestNewRequiredField(t *testing.T) {
	_, err := New[sampleConfig]("CFGREQ", WithoutEnvFile())
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
}
