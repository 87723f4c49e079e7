package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// Zone maps a managed domain to its Cloudflare zone identifier. Zones are
// kept as an ordered list so cleanup walks them in the configured order.
type Zone struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"`
}

type Config struct {
	Zones      []Zone         `yaml:"zones"`
	AbuseIPDB  EndpointConfig `yaml:"abuseipdb"`
	Cloudflare EndpointConfig `yaml:"cloudflare"`
}

type EndpointConfig struct {
	BaseURL string `yaml:"base_url"`
}

// DefaultConfig returns the built-in zone registry and API endpoints,
// matching the Terraform workspace this tool feeds.
func DefaultConfig() *Config {
	return &Config{
		Zones: []Zone{
			{Name: "homieyeng.top", ID: "1791cd65881eb3caf7d1a3cb315342a5"},
			{Name: "homieyang.dpdns.org", ID: "42e0fad5233017cf842727c41ce3ef89"},
		},
		AbuseIPDB:  EndpointConfig{BaseURL: "https://api.abuseipdb.com/api/v2"},
		Cloudflare: EndpointConfig{BaseURL: "https://api.cloudflare.com/client/v4"},
	}
}

// ParseConfig reads config.yaml from configPath. A missing file is not an
// error; the defaults cover the standard deployment.
func ParseConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if len(configPath) == 0 {
		return config, nil
	}

	data, err := os.ReadFile(path.Join(configPath, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return config, err
	}

	if len(config.Zones) == 0 {
		config.Zones = DefaultConfig().Zones
	}
	if config.AbuseIPDB.BaseURL == "" {
		config.AbuseIPDB.BaseURL = DefaultConfig().AbuseIPDB.BaseURL
	}
	if config.Cloudflare.BaseURL == "" {
		config.Cloudflare.BaseURL = DefaultConfig().Cloudflare.BaseURL
	}

	return config, nil
}
