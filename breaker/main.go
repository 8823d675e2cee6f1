// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Command breaker is the online half of the PCG-XSH-RR attack: it reads a
// stream of 32-bit outputs from stdin and, armed with a precomputed table
// built by the gentable command, predicts future outputs and ultimately recovers
// the generator's full (state, increment) pair.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/xtaci/pcgxsh/intake"
	"github.com/xtaci/pcgxsh/solver"
	"github.com/xtaci/pcgxsh/table"
)

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

func main() {
	myApp := cli.NewApp()
	myApp.Name = "breaker"
	myApp.Usage = "PCG-XSH-RR output prediction & state recovery"
	myApp.Version = VERSION
	myApp.ArgsUsage = "<table-file>"
	myApp.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "recovery",
			Usage: "suppress per-output prediction printing; show only pruning progress and the final recovered state",
		},
		cli.BoolFlag{
			Name:  "binary",
			Usage: "read stdin as packed little-endian uint32 words instead of text lines",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "specify a log file for operational diagnostics, default goes to stderr",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "suppress the startup banner and operational diagnostics",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "",
			Usage: "config from json file, which will override the command from shell",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		config := Config{
			Table:    c.Args().First(),
			Recovery: c.Bool("recovery"),
			Binary:   c.Bool("binary"),
			Log:      c.String("log"),
			Quiet:    c.Bool("quiet"),
		}

		if c.String("c") != "" {
			if err := parseJSONConfig(&config, c.String("c")); err != nil {
				fatal(err)
			}
		}

		logOutput := io.Writer(os.Stderr)
		if config.Log != "" {
			f, err := os.OpenFile(config.Log, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			if err != nil {
				fatal(errors.Wrap(err, "os.OpenFile()"))
			}
			defer f.Close()
			logOutput = f
		}

		logger := log.NewWithOptions(logOutput, log.Options{
			Prefix:          "breaker",
			ReportTimestamp: true,
		})
		if config.Quiet {
			logger.SetLevel(log.WarnLevel)
		} else {
			logger.SetLevel(log.InfoLevel)
		}

		if config.Table == "" {
			fatal(errors.New("missing required positional argument: table file path"))
		}

		run(&config, logger)
		return nil
	}

	myApp.Run(os.Args)
}

func run(config *Config, logger *log.Logger) {
	if !config.Quiet {
		fmt.Println(asciiHeader)
	}

	fmt.Println("[-] Starting clock.")
	start := time.Now()

	logger.Info("loading table", "path", config.Table)
	tbl, err := table.Open(config.Table)
	if err != nil {
		color.Red("[!] Failed to load precomputed table!")
		fatal(errors.Wrap(err, "table.Open()"))
	}
	fmt.Println("[+] Loaded precomputed table.")

	fmt.Println("[-] Reading 4 outputs to initialize the predictor.")
	reader := intake.NewReader(os.Stdin, config.Binary)

	var bootstrap [4]uint32
	for i := range bootstrap {
		out, err := reader.ReadOutput()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fatal(errors.Wrap(intake.ErrInputTruncated, "reading bootstrap outputs"))
			}
			fatal(err)
		}
		bootstrap[i] = out
	}

	predictor, err := solver.NewPredictor(tbl, bootstrap)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("[+] Predictor initialized after %.2f seconds.\n", time.Since(start).Seconds())
	logger.Info("bootstrap complete", "elapsed", time.Since(start))

	if !config.Recovery {
		displayPredictions(5, predictor.PredictFutureOutput())
	}

	outputs := 4
	for {
		output, err := reader.ReadOutput()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fatal(err)
			}
			break
		}
		outputs++

		if !config.Recovery {
			fmt.Printf("[-] Reading output #%d (with value 0x%08X)\n", outputs, output)
		}

		before := predictor.RemainingCandidateCount()
		if err := predictor.SubmitNextOutput(output); err != nil {
			fatal(err)
		}
		after := predictor.RemainingCandidateCount()

		if config.Recovery && after != before {
			fmt.Printf("[+] Pruned to %d states after %d outputs and %.2f seconds.\n",
				after, outputs, time.Since(start).Seconds())
		}

		if state, increment, ok := predictor.Recovered(); ok {
			fmt.Println("[-] State recovery complete, rewinding state...")
			fmt.Printf("[+] Generator internal state fully recovered after %.2f seconds:\n", time.Since(start).Seconds())
			fmt.Println()
			fmt.Println("    pcg32_random_t state = {")
			fmt.Printf("        .state = 0x%016X\n", state)
			fmt.Printf("        .inc   = 0x%016X\n", increment)
			fmt.Println("    };")
			fmt.Println()
			return
		}

		if !config.Recovery {
			displayPredictions(outputs+1, predictor.PredictFutureOutput())
		}
	}

	if config.Recovery {
		fmt.Println("[-] Not enough outputs available to complete state recovery.")
	}
}

func displayPredictions(count int, outputs [2]uint32) {
	if outputs[0] == outputs[1] {
		fmt.Printf("\n[+] Output #%d will be 0x%08X\n\n", count, outputs[0])
	} else {
		fmt.Printf("\n[+] Output #%d will be 0x%08X OR 0x%08X\n\n", count, outputs[0], outputs[1])
	}
}

// fatal reports a failure on stderr in the external-interface format
// spec.md §6 requires, and exits 1.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "\nfatal error: %v\n", err)
	os.Exit(1)
}
