// Package config loads droidaudit configuration from local and global YAML
// files. CLI code applies precedence (flags, then local, then global) when
// mapping them into engine configuration.
package config
