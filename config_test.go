package authcore

import (
	"strings"
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	return cfg
}

func TestDefaultConfigValidatesWithSecret(t *testing.T) {
	cfg := validTestConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with secret should validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short secret", func(c *Config) { c.JWT.Secret = []byte("short") }, "Secret"},
		{"bad signing method", func(c *Config) { c.JWT.SigningMethod = "RS256" }, "SigningMethod"},
		{"zero access ttl", func(c *Config) { c.JWT.AccessTTL = 0 }, "AccessTTL"},
		{"refresh not longer than access", func(c *Config) { c.JWT.RefreshTTL = c.JWT.AccessTTL }, "RefreshTTL"},
		{"negative leeway", func(c *Config) { c.JWT.Leeway = -time.Second }, "Leeway"},
		{"cost out of bounds", func(c *Config) { c.Password.Cost = 99 }, "Cost"},
		{"zero min length", func(c *Config) { c.Password.MinLength = 0 }, "MinLength"},
		{"empty default role", func(c *Config) { c.Account.DefaultRole = "" }, "DefaultRole"},
		{"throttle without attempts", func(c *Config) {
			c.Security.EnableLoginThrottle = true
			c.Security.MaxLoginAttempts = 0
		}, "MaxLoginAttempts"},
		{"refresh throttle without cooldown", func(c *Config) {
			c.Security.EnableRefreshThrottle = true
			c.Security.RefreshCooldownDuration = 0
		}, "RefreshCooldownDuration"},
		{"audit without buffer", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.BufferSize = 0
		}, "BufferSize"},
		{"empty cookie name", func(c *Config) { c.Cookie.Name = "" }, "Cookie"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCloneConfigCopiesSecret(t *testing.T) {
	cfg := validTestConfig()
	cloned := cloneConfig(cfg)

	cloned.JWT.Secret[0] = 'X'
	if cfg.JWT.Secret[0] == 'X' {
		t.Fatal("clone shares secret backing array")
	}
}
