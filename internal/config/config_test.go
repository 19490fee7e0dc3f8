package config_test

import (
	"strings"
	"testing"
	"time"

	"pet-manager-api/internal/config"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	c, err := config.FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if c.Addr() != "localhost:4350" {
		t.Errorf("addr: got %s", c.Addr())
	}
	if c.JWTExpiresIn.Duration() != time.Hour {
		t.Errorf("expiry: got %v", c.JWTExpiresIn.Duration())
	}
	if c.DB.Driver != "mysql" || c.DB.Port != "3306" {
		t.Errorf("db defaults: %+v", c.DB)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("cors origins: %v", c.CORSOrigins)
	}
	if c.UniformLoginErrors {
		t.Error("uniform login errors should default off")
	}
	if c.RateLimit.RPS != 5 || c.RateLimit.Burst != 10 {
		t.Errorf("rate limit defaults: %+v", c.RateLimit)
	}
	if c.RateLimit.TrustProxyHeaders {
		t.Error("proxy headers should not be trusted by default")
	}
	if c.RateLimit.Window != time.Minute || c.RateLimit.Max != 60 {
		t.Errorf("shared window defaults: %+v", c.RateLimit)
	}
}

func TestFromEnvValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET"},
		{"bad port", map[string]string{"BACKEND_PORT": "99999"}, "BACKEND_PORT"},
		{"bad grpc port", map[string]string{"GRPC_HEALTH_PORT": "abc"}, "GRPC_HEALTH_PORT"},
		{"bad driver", map[string]string{"DB_DRIVER": "postgres"}, "DB_DRIVER"},
		{"zero expiry", map[string]string{"JWT_EXPIRES_IN": "0"}, "JWT_EXPIRES_IN"},
		{"bad zone", map[string]string{"APPOINTMENT_TZ": "Mars/Olympus"}, "APPOINTMENT_TZ"},
		{"bad ratio", map[string]string{"OTEL_SAMPLING_RATIO": "2"}, "OTEL_SAMPLING_RATIO"},
		{"zero burst", map[string]string{"RATE_LIMIT_BURST": "0"}, "RATE_LIMIT_BURST"},
		{"negative grpc rps", map[string]string{"GRPC_RATE_LIMIT_RPS": "-1"}, "GRPC_RATE_LIMIT_RPS"},
		{"zero max", map[string]string{"RATE_LIMIT_MAX": "0"}, "RATE_LIMIT_MAX"},
		{"zero window", map[string]string{"RATE_LIMIT_WINDOW": "0s"}, "RATE_LIMIT_WINDOW"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.FromEnv()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}

func TestGRPCPortMayBeDisabled(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("GRPC_HEALTH_PORT", "0")

	c, err := config.FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if c.GRPCEnabled() {
		t.Error("expected grpc health server to be disabled")
	}
}

func TestExpiryFormats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"3600", time.Hour},
		{"90m", 90 * time.Minute},
		{"7d", 7 * 24 * time.Hour},
		{" 2h ", 2 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var e config.Expiry
			if err := e.UnmarshalText([]byte(tt.in)); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if e.Duration() != tt.want {
				t.Errorf("got %v, want %v", e.Duration(), tt.want)
			}
		})
	}

	var e config.Expiry
	for _, bad := range []string{"", "xd", "soon"} {
		if err := e.UnmarshalText([]byte(bad)); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
