package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/configguard/internal/infrastructure/config"
	"github.com/nerrad567/configguard/internal/security"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestRun_MissingConfig verifies run fails when the main config is absent.
func TestRun_MissingConfig(t *testing.T) {
	dir := t.TempDir()
	args := []string{
		"--config", filepath.Join(dir, "missing.properties"),
		"--catalog", filepath.Join(dir, "missing.json"),
	}

	err := run(testContext(t), args, &bytes.Buffer{})
	if !errors.Is(err, config.ErrMissingMainConfig) {
		t.Fatalf("run() error = %v, want ErrMissingMainConfig", err)
	}
}

// TestRun_RejectsHardcodedSecret verifies startup stops on a violation.
func TestRun_RejectsHardcodedSecret(t *testing.T) {
	dir := t.TempDir()
	main := writeTestFile(t, dir, "application.properties", "app.name=orders\napi.token=abc123\n")

	var out bytes.Buffer
	err := run(testContext(t), []string{"--config", main, "--check-only"}, &out)
	if !errors.Is(err, security.ErrHardcodedSecret) {
		t.Fatalf("run() error = %v, want ErrHardcodedSecret", err)
	}
	if out.Len() != 0 {
		t.Errorf("summary printed for a rejected config: %q", out.String())
	}
}

// TestRun_CheckOnly verifies a clean config is accepted and summarised.
func TestRun_CheckOnly(t *testing.T) {
	dir := t.TempDir()
	main := writeTestFile(t, dir, "application.properties", "app.name=orders\ndb.password=\n")
	secret := writeTestFile(t, dir, "secret.properties", "db.password=Sup3r$ecretLongOne\n")

	var out bytes.Buffer
	args := []string{
		"--config", main,
		"--secrets", secret,
		"--catalog", filepath.Join(dir, "missing.json"),
		"--check-only",
	}
	if err := run(testContext(t), args, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	summary := out.String()
	if !strings.Contains(summary, "app.name=orders") {
		t.Errorf("summary missing app.name: %q", summary)
	}
	if !strings.Contains(summary, "db.password="+redactedValue) {
		t.Errorf("summary should redact db.password: %q", summary)
	}
	if strings.Contains(summary, "Sup3r$ecretLongOne") {
		t.Errorf("summary leaks the password: %q", summary)
	}
}

// TestRun_ConnectsToDatabase verifies the database is opened after acceptance.
func TestRun_ConnectsToDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "data", "app.db")
	main := writeTestFile(t, dir, "application.yaml", `
app:
  name: orders
db:
  driver: sqlite3
  url: `+dbPath+`
  show_sql: false
`)

	args := []string{
		"--config", main,
		"--secrets", filepath.Join(dir, "missing-secret.properties"),
		"--catalog", filepath.Join(dir, "missing.json"),
	}
	if err := run(testContext(t), args, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

// TestRun_EnvFileOverrides verifies dotenv values reach existing keys only.
func TestRun_EnvFileOverrides(t *testing.T) {
	dir := t.TempDir()
	main := writeTestFile(t, dir, "application.properties", "app.name=orders\n")
	envFile := writeTestFile(t, dir, ".env", "app.name=billing\napp.extra=ignored\n")

	var out bytes.Buffer
	args := []string{
		"--config", main,
		"--secrets", "",
		"--env-file", envFile,
		"--catalog", filepath.Join(dir, "missing.json"),
		"--check-only",
	}
	if err := run(testContext(t), args, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(out.String(), "app.name=billing") {
		t.Errorf("summary = %q, want app.name overridden from env file", out.String())
	}
	if strings.Contains(out.String(), "app.extra") {
		t.Errorf("summary = %q, env file must not create keys", out.String())
	}
}

// TestParseOptions_Environment verifies CONFIGGUARD_* variables fill unset flags.
func TestParseOptions_Environment(t *testing.T) {
	t.Setenv("CONFIGGUARD_CONFIG", "/etc/app/application.properties")
	t.Setenv("CONFIGGUARD_ENV_FILE", "/etc/app/.env")
	t.Setenv("CONFIGGUARD_CHECK_ONLY", "true")

	opts, err := parseOptions([]string{"--catalog", "/etc/app/weak.json"})
	if err != nil {
		t.Fatalf("parseOptions() error = %v", err)
	}

	if opts.configPath != "/etc/app/application.properties" {
		t.Errorf("configPath = %q", opts.configPath)
	}
	if opts.envFile != "/etc/app/.env" {
		t.Errorf("envFile = %q", opts.envFile)
	}
	if !opts.checkOnly {
		t.Error("checkOnly = false, want true")
	}
	if opts.catalogPath != "/etc/app/weak.json" {
		t.Errorf("catalogPath = %q", opts.catalogPath)
	}
	if opts.secretPath != config.DefaultSecretPath {
		t.Errorf("secretPath = %q, want default", opts.secretPath)
	}
}

// TestParseOptions_FlagWinsOverEnvironment verifies explicit flags take precedence.
func TestParseOptions_FlagWinsOverEnvironment(t *testing.T) {
	t.Setenv("CONFIGGUARD_CONFIG", "/from/env.properties")

	opts, err := parseOptions([]string{"--config", "/from/flag.properties"})
	if err != nil {
		t.Fatalf("parseOptions() error = %v", err)
	}
	if opts.configPath != "/from/flag.properties" {
		t.Errorf("configPath = %q, want flag value", opts.configPath)
	}
}

// TestParseOptions_UnknownFlag verifies bad flags are rejected.
func TestParseOptions_UnknownFlag(t *testing.T) {
	if _, err := parseOptions([]string{"--no-such-flag"}); err == nil {
		t.Error("parseOptions() expected error for unknown flag")
	}
}
