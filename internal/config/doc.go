// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > Environment
// variables > YAML config > Defaults. It exposes strongly typed settings to the
// solver commands and the HTTP service.
package config
