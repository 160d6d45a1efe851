// Package flagx lets several independent flag sets share one os.Args.
//
// The server and the terminal client both read a JSON config path, an
// optional .env path and their own short flags from the same command line.
// Each loader filters the arguments down to the flags it owns before parsing,
// so no loader fails on flags that belong to another.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args made of allowed flags and their values.
//
// Recognised forms are "-c conf.json" and "-c=conf.json" (or the "--" variants
// when listed in allowed). A value is only consumed when the following
// argument does not itself start with "-".
func FilterArgs(args []string, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		set[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, known := set[name]; known {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, known := set[arg]; !known {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFile extracts the JSON config path given with -c or -config.
// It returns "" when neither flag is present.
func ConfigFile(args []string) string {
	return stringFlag(args, "c", "config")
}

// EnvFile extracts the dotenv path given with -env.
// It returns "" when the flag is absent.
func EnvFile(args []string) string {
	return stringFlag(args, "env", "env")
}

func stringFlag(args []string, short, long string) string {
	var value string

	filtered := FilterArgs(args, []string{"-" + short, "-" + long, "--" + long})

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&value, long, "", "")
	if short != long {
		fs.StringVar(&value, short, "", "")
	}
	_ = fs.Parse(filtered)

	return value
}
