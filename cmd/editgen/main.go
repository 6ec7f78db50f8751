/*
Editgen runs the edit-rule synthesis core over an authored rule-map document.

It reads a rule-map document (TOML by default, or JSON with --format json),
applies the blank-symbol collector, insertion-closure engine, insertion- and
transposition-rule materializers, semantic-potential analyzer, and ambiguity
gatekeeper, then writes the resulting rule map back out in the requested
format (toml, json, or a compact rezi binary encoding).

Usage:

	editgen [flags] INPUT_FILE

The flags are:

	-v, --version
		Give the current version of editgram and then exit.

	-o, --output FILE
		Write the synthesized rule map to FILE instead of stdout.

	-f, --format FORMAT
		Input/output document format: "toml" (default) or "json". Combine
		with --output-format to pick a different output format, e.g. rezi.

	--output-format FORMAT
		Output format, defaulting to --format's value. Accepts "rezi" in
		addition to "toml"/"json".

	--config FILE
		A TOML file of Options defaults (max_cost, stop_ambiguity,
		include_trees), overridden by the flags below when given.

	--max-cost FLOAT
		Override the cost ceiling.

	--stop-ambiguity
		Fail fast on the first ambiguous rule pair instead of keeping the
		cheaper alternative.

	--include-trees
		Retain derivation-tree witnesses in the output.

	--repl
		After processing INPUT_FILE, drop into an interactive loop (line
		editing via github.com/chzyer/readline) that reloads and reprocesses
		a rule map file named on each line, useful for iterating on an
		authored document.
*/
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/dekarrin/editgram/internal/compileerr"
	"github.com/dekarrin/editgram/internal/editgram"
	"github.com/dekarrin/editgram/internal/version"
)

const (
	// ExitSuccess indicates a successful run.
	ExitSuccess = iota

	// ExitCompileError indicates the core reported a fatal error (ambiguity,
	// missing semantic, illegal semantic merge).
	ExitCompileError

	// ExitIOError indicates a problem reading the input document, config
	// file, or writing output.
	ExitIOError
)

// fileConfig is the --config document's shape.
type fileConfig struct {
	MaxCost       float64 `toml:"max_cost"`
	StopAmbiguity bool    `toml:"stop_ambiguity"`
	IncludeTrees  bool    `toml:"include_trees"`
}

var (
	returnCode = ExitSuccess

	flagVersion      = pflag.BoolP("version", "v", false, "Gives the version info")
	flagOutput       = pflag.StringP("output", "o", "", "Write synthesized rule map here instead of stdout")
	flagFormat       = pflag.StringP("format", "f", "toml", "Input/output document format: toml or json")
	flagOutputFormat = pflag.String("output-format", "", "Output format, defaults to --format; also accepts rezi")
	flagConfig       = pflag.String("config", "", "TOML file of Options defaults")
	flagMaxCost      = pflag.Float64("max-cost", 0, "Override the cost ceiling (0 means use the config/default)")
	flagStopAmbig    = pflag.Bool("stop-ambiguity", false, "Fail fast on the first ambiguous rule pair")
	flagIncludeTrees = pflag.Bool("include-trees", false, "Retain derivation-tree witnesses in the output")
	flagRepl         = pflag.Bool("repl", false, "Drop into an interactive reprocessing loop after the first run")
)

func main() {
	logger := log.New(os.Stderr, "editgen: ", log.LstdFlags)

	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: an input rule-map document is required")
		returnCode = ExitIOError
		return
	}
	inputPath := pflag.Arg(0)

	opts, err := resolveOptions()
	if err != nil {
		logger.Printf("ERROR: %v", err)
		returnCode = ExitIOError
		return
	}

	runID := uuid.New()
	logger.Printf("run %s: compiling %s", runID, inputPath)

	if err := runOnce(logger, runID.String(), inputPath, opts); err != nil {
		logger.Printf("run %s: FATAL: %v", runID, err)
		returnCode = ExitIOError
		if _, isCompileErr := compileerr.KindOf(err); isCompileErr {
			returnCode = ExitCompileError
		}
		return
	}

	if *flagRepl {
		if err := runRepl(logger, opts); err != nil {
			logger.Printf("REPL error: %v", err)
			returnCode = ExitIOError
			return
		}
	}
}

func resolveOptions() (editgram.Options, error) {
	opts := editgram.Options{}

	if *flagConfig != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(*flagConfig, &fc); err != nil {
			return opts, fmt.Errorf("read config %s: %w", *flagConfig, err)
		}
		opts.MaxCost = fc.MaxCost
		opts.StopAmbiguity = fc.StopAmbiguity
		opts.IncludeTrees = fc.IncludeTrees
	}

	// Flags win over the config file, per cmd/tqi's precedence order.
	if *flagMaxCost > 0 {
		opts.MaxCost = *flagMaxCost
	}
	if *flagStopAmbig {
		opts.StopAmbiguity = true
	}
	if *flagIncludeTrees {
		opts.IncludeTrees = true
	}
	return opts, nil
}

func runOnce(logger *log.Logger, runID, inputPath string, opts editgram.Options) error {
	doc, err := loadRuleMapDoc(inputPath, *flagFormat)
	if err != nil {
		return err
	}

	rm, err := doc.toRuleMap()
	if err != nil {
		return err
	}

	diag, err := editgram.BuildEditRules(rm, opts)
	if err != nil {
		return err
	}
	for _, drop := range diag.Drops {
		logger.Printf("run %s: %s", runID, drop)
	}

	outFormat := *flagOutputFormat
	if outFormat == "" {
		outFormat = *flagFormat
	}

	if *flagOutput == "" {
		out, err := encodeRuleMapDoc(rm, outFormat)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	return writeRuleMapDoc(*flagOutput, outFormat, rm)
}

func runRepl(logger *log.Logger, opts editgram.Options) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "editgen> "})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return nil
		}
		if line == "" {
			continue
		}
		if err := runOnce(logger, uuid.New().String(), line, opts); err != nil {
			logger.Printf("ERROR: %v", err)
		}
	}
}
