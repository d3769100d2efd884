package config

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestOverride(t *testing.T) {
	tests := []struct {
		name     string
		env      Environment
		wantKeys []string
		want     map[string]string
	}{
		{
			name:     "exact match replaces value",
			env:      Environment{"db.url": "postgres://prod/app"},
			wantKeys: []string{"db.url"},
			want:     map[string]string{"db.url": "postgres://prod/app", "db.username": "app"},
		},
		{
			name:     "upper snake case is not mapped",
			env:      Environment{"DB_URL": "postgres://prod/app", "DB_USERNAME": "root"},
			wantKeys: nil,
			want:     map[string]string{"db.url": "postgres://localhost/app", "db.username": "app"},
		},
		{
			name:     "unknown names never create keys",
			env:      Environment{"db.pool.size": "10"},
			wantKeys: nil,
			want:     map[string]string{"db.url": "postgres://localhost/app", "db.username": "app"},
		},
		{
			name:     "empty value still overrides",
			env:      Environment{"db.username": ""},
			wantKeys: []string{"db.username"},
			want:     map[string]string{"db.url": "postgres://localhost/app", "db.username": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMap()
			_ = m.Set("db.url", "postgres://localhost/app")
			_ = m.Set("db.username", "app")

			keys, err := Override(m, tt.env)
			if err != nil {
				t.Fatalf("Override() error = %v", err)
			}
			if !slices.Equal(keys, tt.wantKeys) {
				t.Errorf("Override() keys = %v, want %v", keys, tt.wantKeys)
			}
			if m.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", m.Len(), len(tt.want))
			}
			for k, want := range tt.want {
				if got, _ := m.Get(k); got != want {
					t.Errorf("%s = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestOverride_FrozenMap(t *testing.T) {
	m := NewMap()
	_ = m.Set("db.url", "x")
	m.Freeze()

	if _, err := Override(m, Environment{"db.url": "y"}); !errors.Is(err, ErrFrozen) {
		t.Errorf("Override() error = %v, want ErrFrozen", err)
	}
}

func TestEnvironmentFromOS(t *testing.T) {
	t.Setenv("db.url", "postgres://from-os/app")
	t.Setenv("CONFIGGUARD_TEST_EMPTY", "")

	env := EnvironmentFromOS()
	if env["db.url"] != "postgres://from-os/app" {
		t.Errorf("db.url = %q", env["db.url"])
	}
	if v, ok := env["CONFIGGUARD_TEST_EMPTY"]; !ok || v != "" {
		t.Errorf("CONFIGGUARD_TEST_EMPTY = %q, %v; want empty and present", v, ok)
	}
}

func TestReadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "# local overrides\ndb.password=from-dotenv\nAPP_MODE=dev\n")

	env, err := ReadEnvFile(path)
	if err != nil {
		t.Fatalf("ReadEnvFile() error = %v", err)
	}
	if env["db.password"] != "from-dotenv" {
		t.Errorf("db.password = %q, want %q", env["db.password"], "from-dotenv")
	}
	if env["APP_MODE"] != "dev" {
		t.Errorf("APP_MODE = %q, want %q", env["APP_MODE"], "dev")
	}

	if _, err := ReadEnvFile(filepath.Join(dir, "missing.env")); err == nil {
		t.Error("ReadEnvFile() expected error for missing file")
	}
}

func TestEnvironment_Merge(t *testing.T) {
	base := Environment{"a": "1", "b": "2"}
	merged := base.Merge(Environment{"b": "3", "c": "4"})

	want := Environment{"a": "1", "b": "3", "c": "4"}
	if len(merged) != len(want) {
		t.Fatalf("len = %d, want %d", len(merged), len(want))
	}
	for k, v := range want {
		if merged[k] != v {
			t.Errorf("%s = %q, want %q", k, merged[k], v)
		}
	}
	if base["b"] != "2" {
		t.Error("Merge() modified the receiver")
	}
}
