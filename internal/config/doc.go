// Package config loads the confighelper binary's own settings from
// environment variables (CONFIGHELPER_*) and CLI flags with precedence:
// CLI flags > Environment variables > Defaults.
package config
