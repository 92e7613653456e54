package main

import (
	"os"
)

const (
	defaultCompiler = "cspro-compiler"
	defaultCheckArg = "--check-only"
)

// settings selects the external compiler executable.
type settings struct {
	Compiler string
	CheckArg string
}

// loadSettings reads the plugin settings from the environment inherited from the host.
func loadSettings() settings {
	return settings{
		Compiler: envOr("CSPROCOMPILE_EXTERNAL_COMPILER", defaultCompiler),
		CheckArg: envOr("CSPROCOMPILE_EXTERNAL_CHECK_ARG", defaultCheckArg),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
