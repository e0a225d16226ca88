package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// valueFlags take an argument; everything else starting with "--" is a
// boolean switch.
var valueFlags = map[string]bool{
	"--config":  true,
	"--profile": true,
	"--python":  true,
	"--limit":   true,
}

// flagValue extracts --name VALUE or --name=VALUE from args.
func flagValue(args []string, name string) (string, bool) {
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == name && i+1 < len(args):
			return args[i+1], true
		case strings.HasPrefix(args[i], name+"="):
			return strings.TrimPrefix(args[i], name+"="), true
		}
	}
	return "", false
}

// positional returns the arguments that are neither flags nor flag values.
func positional(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			out = append(out, arg)
			continue
		}
		if valueFlags[arg] {
			i++
		}
	}
	return out
}

// intFlag parses a positive integer flag, falling back to def when absent.
func intFlag(args []string, name string, def int) (int, error) {
	v, ok := flagValue(args, name)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, v)
	}
	return n, nil
}

func configPath(args []string) string {
	if p, ok := flagValue(args, "--config"); ok {
		return p
	}
	if p := os.Getenv("PACKDECK_CONFIG"); p != "" {
		return p
	}
	return "packdeck.yaml"
}
