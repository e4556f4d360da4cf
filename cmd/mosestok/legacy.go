package main

// legacyLongFlags are the multi-letter flags the Moses tokenizer spells
// with a single dash.
var legacyLongFlags = map[string]bool{
	"no-escape": true,
	"threads":   true,
	"lines":     true,
	"time":      true,
	"protected": true,
	"penn":      true,
}

// normalizeLegacyArgs rewrites single-dash long flags (-no-escape,
// -threads 4) to the double-dash form pflag expects. Arguments after "--"
// are left alone.
func normalizeLegacyArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)

	for i, arg := range out {
		if arg == "--" {
			break
		}
		if len(arg) > 2 && arg[0] == '-' && arg[1] != '-' && legacyLongFlags[arg[1:]] {
			out[i] = "-" + arg
		}
	}

	return out
}
