package config

// This file implements CLI flag parsing and help text.
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// ErrHelp is returned by [ParseFlags] after --help or --version output has
// been printed. Callers should exit successfully.
var ErrHelp = flag.ErrHelp

// ParseFlags parses args (normally os.Args[1:]) into cfg. On --help or
// --version it prints and returns ErrHelp. On error it returns non-nil
// (e.g. unknown flag, missing positional args).
func ParseFlags(cfg *Config, version string, args []string) error {
	fs := flag.NewFlagSet("audionorm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(os.Stderr, version) }

	var extra extraFlags

	defineFormatFlags(fs, cfg)
	defineToolFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &extra)
	defineUtilityFlags(fs, &extra)

	positional, err := parseInterleaved(fs, args)
	if err != nil {
		if err == flag.ErrHelp {
			printUsage(os.Stderr, version)
			return ErrHelp
		}
		return err
	}

	applyExtraFlags(cfg, &extra)

	if extra.showHelp {
		printUsage(os.Stderr, version)
		return ErrHelp
	}
	if extra.showVersion {
		fmt.Fprintln(os.Stdout, "audionorm v"+version)
		return ErrHelp
	}

	return parsePositionalArgs(positional, cfg)
}

// parseInterleaved parses args allowing options after positional
// arguments. The flag package stops at the first non-flag, so parsing is
// resumed after each positional until args run out.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// extraFlags holds boolean flags that are applied after Parse.
type extraFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineFormatFlags registers -sr/--sample-rate and -bd/--bit-depth.
func defineFormatFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "Sample rate in Hz")
	fs.IntVar(&cfg.SampleRate, "sr", cfg.SampleRate, "Same as --sample-rate")
	fs.IntVar(&cfg.BitDepth, "bit-depth", cfg.BitDepth, "Bit depth")
	fs.IntVar(&cfg.BitDepth, "bd", cfg.BitDepth, "Same as --bit-depth")
}

// defineToolFlags registers --ffmpeg and --ffprobe.
func defineToolFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "ffprobe binary")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *extraFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, n *extraFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

func applyExtraFlags(cfg *Config, n *extraFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets SourceDir and TargetDir from the two positional args when not in CheckOnly mode.
func parsePositionalArgs(args []string, cfg *Config) error {
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("need exactly source_dir and target_dir")
	}
	cfg.SourceDir = NormalizeDirArg(args[0])
	cfg.TargetDir = NormalizeDirArg(args[1])
	return nil
}

// printUsage writes the help text to w. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 28
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "audionorm v" + version + " - WAV/AIFF normalizer with identical-channel mono downmix"},
		{"", ""},
		{"  audionorm [OPTIONS] <source_dir> <target_dir> [OPTIONS]", ""},
		{"", ""},
		{"Output format", ""},
		{"  -sr, --sample-rate <hz>", "Sample rate in Hz (default: 44100)"},
		{"  -bd, --bit-depth <bits>", "Bit depth: 16 | 32 (default: 16)"},
		{"", ""},
		{"Tools", ""},
		{"  --ffmpeg <path>", "ffmpeg binary (default: ffmpeg)"},
		{"  --ffprobe <path>", "ffprobe binary (default: ffprobe)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Log channel analysis and ffmpeg output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, astats, pcm_s16le)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
