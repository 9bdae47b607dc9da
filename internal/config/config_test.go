package config

import "testing"

func TestFetcherConfig_WithDefaults(t *testing.T) {
	c := FetcherConfig{}.WithDefaults()
	if c.UserAgent == "" {
		t.Error("expected a default user agent")
	}
	if c.TimeoutSeconds != 20 {
		t.Errorf("TimeoutSeconds = %d, want 20", c.TimeoutSeconds)
	}

	custom := FetcherConfig{UserAgent: "custom-agent", TimeoutSeconds: 5}.WithDefaults()
	if custom.UserAgent != "custom-agent" {
		t.Errorf("UserAgent = %q, want %q", custom.UserAgent, "custom-agent")
	}
	if custom.TimeoutSeconds != 5 {
		t.Errorf("TimeoutSeconds = %d, want 5", custom.TimeoutSeconds)
	}
}

func TestRobotsConfig_WithDefaults_UsesFiveSecondTimeout(t *testing.T) {
	c := RobotsConfig{}.WithDefaults()
	if c.HTTPConfig.TimeoutSeconds != 5 {
		t.Errorf("RobotsConfig default timeout = %d, want 5", c.HTTPConfig.TimeoutSeconds)
	}
}

func TestHeadlessConfig_WithDefaults(t *testing.T) {
	c := HeadlessConfig{}.WithDefaults()
	if c.IdleTimeoutSeconds != 10 {
		t.Errorf("IdleTimeoutSeconds = %d, want 10", c.IdleTimeoutSeconds)
	}
	if c.TimeoutSeconds != 20 {
		t.Errorf("embedded FetcherConfig.TimeoutSeconds = %d, want 20", c.TimeoutSeconds)
	}
	if c.IdleTimeout().Seconds() != 10 {
		t.Errorf("IdleTimeout() = %v, want 10s", c.IdleTimeout())
	}
}

func TestTabPoolConfig_WithDefaults(t *testing.T) {
	c := TabPoolConfig{}.WithDefaults()
	if c.Capacity != 16 {
		t.Errorf("Capacity = %d, want 16", c.Capacity)
	}
	if c.UserAgent == "" {
		t.Error("expected a default user agent")
	}
}
