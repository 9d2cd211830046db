// Package config loads runtime configuration from multiple sources (a .env file,
// environment variables, YAML files, CLI flags) with precedence: CLI flags > YAML
// config > Environment variables > .env file > Defaults. It exposes strongly typed
// settings to the rest of the application.
package config
