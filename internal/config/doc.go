// Package config loads the server settings from defaults, an optional
// config.yaml, a .env file and METANAV_* environment variables, and
// validates the result.
package config
