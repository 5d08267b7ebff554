package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestStorageConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StorageConfig
		wantErr bool
	}{
		{"fs with path", StorageConfig{Driver: DriverFS, Path: "./data"}, false},
		{"sqlite with path", StorageConfig{Driver: DriverSQLite, Path: "pnx.db"}, false},
		{"memory without path", StorageConfig{Driver: DriverMemory}, false},
		{"fs without path", StorageConfig{Driver: DriverFS}, true},
		{"unknown driver", StorageConfig{Driver: "redis", Path: "x"}, true},
		{"empty driver", StorageConfig{Path: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Inbox.Enabled() {
		t.Error("inbox should be disabled by default")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestOpenKV(t *testing.T) {
	for _, driver := range []string{DriverFS, DriverSQLite, DriverMemory} {
		t.Run(driver, func(t *testing.T) {
			path := t.TempDir()
			if driver == DriverSQLite {
				path += "/pnx.db"
			}
			store, closeFn, err := openKV(StorageConfig{Driver: driver, Path: path})
			if err != nil {
				t.Fatal(err)
			}
			defer closeFn()
			if err := store.Set("ping", []byte(`1`)); err != nil {
				t.Fatal(err)
			}
			got, err := store.Get("ping")
			if err != nil || string(got) != "1" {
				t.Errorf("Get = %q, %v", got, err)
			}
		})
	}
}
