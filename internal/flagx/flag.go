// Package flagx picks the flags one component owns out of a shared command
// line so that several components can parse os.Args side by side.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the arguments of args naming a flag in allowed, each
// together with its value.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//
// Flags listed in switches are boolean and never consume the following
// argument as their value.
//
// The result is never nil.
func FilterArgs(args []string, allowed []string, switches ...string) []string {
	known := make(map[string]bool, len(allowed)+len(switches))
	for _, f := range allowed {
		known[f] = false
	}
	for _, f := range switches {
		known[f] = true
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := known[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		isSwitch, ok := known[arg]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)
		// a value never starts with a dash
		if !isSwitch && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath extracts the config file path given with -c, -config or
// --config. The last occurrence wins; an empty string means none was given.
func ConfigPath(args []string) string {
	var config string

	filtered := FilterArgs(args, []string{"-c", "-config", "--c", "--config"})

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(filtered)

	return config
}
