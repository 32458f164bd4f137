/*
Package config loads flood settings from YAML or JSON.

# Overview

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or holds the wrong type. Settings is the typed
view used to build a flooder.

# Basic Usage

	settings, err := config.LoadSettings("flood.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	flooder, err := flood.FromSettings(settings)

# Durations

Duration accepts a Go duration string ("5s", "1m30s"), a number of seconds
(int or float), or a time.Duration. Pulsetimes are usually whole seconds, so
"pulsetime: 5" and "pulsetime: 5s" are equivalent.

# Thread Safety

Config is safe for concurrent reads. The underlying map is not modified after
creation.
*/
package config
