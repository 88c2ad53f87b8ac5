// Package config provides configuration loading and defaults for coursecoach.
package config

// DefaultConfigDir is the default location for coursecoach configuration.
const DefaultConfigDir = "~/.config/coursecoach"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultFixturesDir is empty: the embedded fixtures are used.
const DefaultFixturesDir = ""

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultNotify holds the default toast delivery preferences.
var DefaultNotify = Notify{
	Desktop: false,
}
