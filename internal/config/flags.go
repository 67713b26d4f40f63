package config

// Flags come in long/short pairs bound to the same Config field. Positional
// arguments are the data file followed by one or more templates.

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// ParseFlags parses args (without the program name) into cfg. Flags may
// appear before, between or after the positional arguments. It returns
// flag.ErrHelp when help was requested.
func ParseFlags(args []string, cfg *Config) error {
	fs := flag.NewFlagSet("docmerge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	var showHelp bool
	defineFlags(fs, cfg, &showHelp)

	var positional []string
	for rest := args; ; {
		if err := fs.Parse(rest); err != nil {
			if err == flag.ErrHelp {
				printUsage(os.Stderr)
			}
			return err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	if showHelp {
		printUsage(os.Stderr)
		return flag.ErrHelp
	}
	if cfg.ShowVersion {
		return nil
	}
	return setPositionalArgs(positional, cfg)
}

func defineFlags(fs *flag.FlagSet, cfg *Config, showHelp *bool) {
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Output directory")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Same as --out")
	fs.StringVar(&cfg.NameTemplate, "name", cfg.NameTemplate, "Name column or $Field template")
	fs.StringVar(&cfg.NameTemplate, "n", cfg.NameTemplate, "Same as --name")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "CSV input encoding")
	fs.StringVar(&cfg.Encoding, "e", cfg.Encoding, "Same as --encoding")
	fs.StringVar(&cfg.Sheet, "sheet", cfg.Sheet, "XLSX sheet name")
	fs.Var(&delimiterValue{&cfg.Delimiter}, "delimiter", "CSV field delimiter")
	fs.Var(&listValue{&cfg.Require}, "require", "Comma separated required columns")
	fs.StringVar(&cfg.ManifestPath, "manifest", cfg.ManifestPath, "SQLite run manifest")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Resolve names and fill templates without writing")
	fs.Var(&logLevelValue{&cfg.LogLevel}, "log-level", "debug | info | warn | error")
	fs.Var(&logFormatValue{&cfg.LogFormat}, "log-format", "text | json")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")
	fs.BoolVar(&cfg.ShowVersion, "V", false, "Same as --version")
	fs.BoolVar(showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(showHelp, "h", false, "Same as --help")
}

// setPositionalArgs sets DataFile and Templates.
func setPositionalArgs(args []string, cfg *Config) error {
	if len(args) < 2 {
		return fmt.Errorf("need a data file and at least one template")
	}
	cfg.DataFile = args[0]
	cfg.Templates = append([]string(nil), args[1:]...)
	return nil
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer) {
	const col1 = 26
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "docmerge - fill document templates from CSV or XLSX rows"},
		{"", ""},
		{"  docmerge [OPTIONS] <data.csv|data.xlsx> <template> [template...]", ""},
		{"", ""},
		{"Output", ""},
		{"  -o, --out <dir>", "Output directory (default: output)"},
		{"  -n, --name <template>", "Name column or template such as '$Apellido $Nombre[0]'"},
		{"  --dry-run", "Resolve names and fill templates without writing"},
		{"  --manifest <path>", "Record the run in a SQLite manifest"},
		{"", ""},
		{"Data", ""},
		{"  -e, --encoding <name>", "CSV encoding: utf-8, latin1, windows-1252, ... (default: utf-8)"},
		{"  --delimiter <char>", "CSV delimiter; 'tab' or '\\t' for tabs (default: ,)"},
		{"  --sheet <name>", "XLSX sheet (default: first)"},
		{"  --require <cols>", "Comma separated columns that must exist"},
		{"", ""},
		{"Logging", ""},
		{"  --log-level <level>", "debug | info | warn | error (default: info)"},
		{"  --log-format <fmt>", "text | json (default: text)"},
		{"", ""},
		{"Utility", ""},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		switch {
		case l.flags == "" && l.desc == "":
			fmt.Fprintln(w)
		case l.desc == "":
			fmt.Fprintln(w, l.flags)
		case l.flags == "":
			fmt.Fprintln(w, l.desc)
		default:
			padding := max(col1-len(l.flags), 1)
			fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
		}
	}
}

// flag.Value adapters.

type delimiterValue struct{ p *rune }

func (d *delimiterValue) String() string {
	if d.p == nil {
		return ""
	}
	return string(*d.p)
}

func (d *delimiterValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "tab", `\t`:
		*d.p = '\t'
		return nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError {
		return fmt.Errorf("invalid delimiter %q (use a single character)", s)
	}
	*d.p = r
	return nil
}

type listValue struct{ p *[]string }

func (l *listValue) String() string {
	if l.p == nil {
		return ""
	}
	return strings.Join(*l.p, ",")
}

func (l *listValue) Set(s string) error {
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			*l.p = append(*l.p, item)
		}
	}
	return nil
}

type logLevelValue struct{ p *slog.Level }

func (v *logLevelValue) String() string {
	if v.p == nil {
		return ""
	}
	return strings.ToLower(v.p.String())
}

func (v *logLevelValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "debug":
		*v.p = slog.LevelDebug
	case "info":
		*v.p = slog.LevelInfo
	case "warn", "warning":
		*v.p = slog.LevelWarn
	case "error":
		*v.p = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q (use debug, info, warn or error)", s)
	}
	return nil
}

type logFormatValue struct{ p *LogFormat }

func (v *logFormatValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *logFormatValue) Set(s string) error {
	switch LogFormat(strings.ToLower(s)) {
	case LogText:
		*v.p = LogText
	case LogJSON:
		*v.p = LogJSON
	default:
		return fmt.Errorf("invalid log format %q (use 'text' or 'json')", s)
	}
	return nil
}
