// Package cliutil provides shared CLI utilities for quill command-line tools.
package cliutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quill-lang/quill"
)

// Flags holds the global flags shared by every subcommand.
type Flags struct {
	Verbose    int
	Strict     bool
	Admin      bool
	Ignore     []string
	ConfigFile string
	OutputFile string
	NoColor    bool
	HelpFlag   bool
}

// ParseArgs parses global flags and extracts the subcommand from args.
// Flags handled: -v/--verbose, -vv, -strict, -admin, -ignore CODE,
// -config FILE, -o/--output FILE, --no-color, -h/--help.
// Unrecognized flags are passed through to the subcommand.
func ParseArgs(args []string) (flags Flags, cmd string, cmdArgs []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			flags.HelpFlag = true
		case arg == "-v" || arg == "--verbose":
			if flags.Verbose < 1 {
				flags.Verbose = 1
			}
		case arg == "-vv":
			flags.Verbose = 2
		case arg == "--no-color":
			flags.NoColor = true
		case arg == "-strict" || arg == "--strict":
			flags.Strict = true
		case arg == "-admin" || arg == "--admin":
			flags.Admin = true
		case arg == "-ignore" || arg == "--ignore":
			if i+1 < len(args) {
				i++
				flags.Ignore = append(flags.Ignore, args[i])
			}
		case strings.HasPrefix(arg, "--ignore="):
			flags.Ignore = append(flags.Ignore, arg[9:])
		case arg == "-config" || arg == "--config":
			if i+1 < len(args) {
				i++
				flags.ConfigFile = args[i]
			}
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigFile = arg[9:]
		case arg == "-o" || arg == "--output":
			if i+1 < len(args) {
				i++
				flags.OutputFile = args[i]
			}
		case strings.HasPrefix(arg, "--output="):
			flags.OutputFile = arg[9:]
		case strings.HasPrefix(arg, "-o"):
			flags.OutputFile = arg[2:]
		case len(arg) > 0 && arg[0] == '-':
			cmdArgs = append(cmdArgs, arg)
		default:
			if cmd == "" {
				cmd = arg
			} else {
				cmdArgs = append(cmdArgs, arg)
			}
		}
	}
	return
}

// FileConfig is the YAML configuration file layout.
//
//	strict: true
//	admin: false
//	ignore:
//	  - field-*
type FileConfig struct {
	Strict bool     `yaml:"strict"`
	Admin  bool     `yaml:"admin"`
	Ignore []string `yaml:"ignore"`
}

// LoadConfig reads a YAML configuration file. Unknown keys are errors.
// An empty file yields the zero configuration.
func LoadConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration data.
func ParseConfig(data []byte) (FileConfig, error) {
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Config merges the configuration file, if any, with the flags. Flags
// can only enable settings and add ignored codes.
func (f Flags) Config() (quill.Config, error) {
	var file FileConfig
	if f.ConfigFile != "" {
		var err error
		if file, err = LoadConfig(f.ConfigFile); err != nil {
			return quill.Config{}, err
		}
	}
	return quill.Config{
		Strict: file.Strict || f.Strict,
		Admin:  file.Admin || f.Admin,
		Ignore: append(file.Ignore, f.Ignore...),
	}, nil
}

// GetOutput opens the output file or returns stdout.
func GetOutput(outputFile string) (*os.File, func(), error) {
	if outputFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
