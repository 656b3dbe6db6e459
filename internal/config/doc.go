// Package config loads application configuration from an optional YAML
// file merged with WRICEF_-prefixed environment variables. Environment
// values win over file values; struct tags carry the defaults.
package config
