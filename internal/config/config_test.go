package config

import (
	"reflect"
	"testing"
	"time"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty allows all", "", nil},
		{"single", "https://a.example", []string{"https://a.example"}},
		{"trims and skips blanks", " https://a.example , ,https://b.example ", []string{"https://a.example", "https://b.example"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseOrigins(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseOrigins(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REPORT_LOCK_SECONDS", "45")
	t.Setenv("MAX_DB_CONNS", "not-a-number")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.ReportLockTTL != 45*time.Second {
		t.Errorf("ReportLockTTL = %v, want 45s", cfg.ReportLockTTL)
	}
	if cfg.MaxDBConns != 16 {
		t.Errorf("MaxDBConns = %d, want fallback 16", cfg.MaxDBConns)
	}
}

func TestCacheKeys(t *testing.T) {
	got := CacheKey.ReportInFlightKey("u1", "r1", "pdf")
	if got != "report:u1:route:r1:pdf:inflight" {
		t.Errorf("ReportInFlightKey = %q", got)
	}
	if CacheKey.StaffSessionKey("u1") != "login:u1" {
		t.Errorf("StaffSessionKey = %q", CacheKey.StaffSessionKey("u1"))
	}
}
