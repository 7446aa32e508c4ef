// Package config loads runtime settings for the ResumeForge CLI from three
// layered sources: built-in defaults, an optional JSON file, and
// command-line flags, in that order of precedence.
package config
