package config

import (
	"flag"

	"github.com/homielab/asnblock/utils"
)

type Options struct {
	ConfigPath      *string
	RulesFile       *string
	MaxASNs         *int
	DryRun          *bool
	LogLevel        *string
	AbuseIPDBKey    *string
	CloudflareToken *string
}

func ParseOptions() (*Options, error) {
	options := &Options{
		ConfigPath: flag.String("config-path", "", "Searches for config.yaml in the given directory. If not set, built-in defaults are used"),
		RulesFile:  flag.String("rules-file", "rules.yaml", "Path of the Terraform rules document to rewrite"),
		MaxASNs:    flag.Int("max-asns", 50, "Maximum number of ASNs to include in the generated block rule"),
		DryRun:     flag.Bool("dry-run", false, "Report rulesets that would be deleted without deleting them"),
		LogLevel:   flag.String("log-level", "info", "Log levels are one of error, warn, info, debug. Only levels higher than the log-level are displayed"),
		AbuseIPDBKey: flag.String("abuseipdb-key",
			utils.GetEnvOrDefault("ABUSEIPDB_API_KEY", ""),
			"AbuseIPDB API key, also supports env var ABUSEIPDB_API_KEY. Empty skips the live feed"),
		CloudflareToken: flag.String("cloudflare-token",
			utils.GetEnvOrDefault("TF_VAR_cloudflare_api_token", ""),
			"Cloudflare API token, also supports env var TF_VAR_cloudflare_api_token. Empty skips ruleset cleanup"),
	}
	flag.Parse()
	return options, nil
}

// NewDefaultOptions returns the default options without flag parsing
func NewDefaultOptions() *Options {
	var emptyValue = ""
	var rulesFile = "rules.yaml"
	var maxASNs = 50
	var dryRun = false
	var logLevel = "info"
	return &Options{
		ConfigPath:      &emptyValue,
		RulesFile:       &rulesFile,
		MaxASNs:         &maxASNs,
		DryRun:          &dryRun,
		LogLevel:        &logLevel,
		AbuseIPDBKey:    &emptyValue,
		CloudflareToken: &emptyValue,
	}
}
