// Package flagx lets several flag sets share os.Args. Each layer of the
// configuration picks out only the flags it owns and parses them with its
// own flag.FlagSet, so unknown flags never abort a parse.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigFlagNames are the flags that point at a JSON configuration file.
var ConfigFlagNames = []string{"c", "config"}

// FilterArgs returns the arguments in args that belong to one of names,
// in their original order. Names may be given with or without leading
// dashes; "-x" and "--x" are treated alike, as the flag package does.
//
// A flag written as "-x=value" is kept as one argument. A bare "-x" also
// keeps the following argument unless that one looks like a flag. Parsing
// stops at a "--" terminator.
func FilterArgs(args []string, names []string) []string {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[flagName(n)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := allowed[flagName(name)]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if hasValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func flagName(s string) string {
	return strings.TrimLeft(s, "-")
}

// IsSet reports whether the flag called name was given on the command line
// parsed by fs, as opposed to holding its default.
func IsSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// ConfigPath returns the JSON config file named by -c or -config in args,
// or "" when neither is present. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigFlagNames))

	return path
}

// JsonConfigFlags is ConfigPath over the process arguments.
func JsonConfigFlags() string {
	return ConfigPath(os.Args[1:])
}
