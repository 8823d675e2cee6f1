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

// Command gentable builds the 1 GiB precomputed table that breaker queries
// to invert PCG-XSH-RR's state transition, per spec.md §4.3.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/xtaci/pcgxsh/table"
)

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

func main() {
	myApp := cli.NewApp()
	myApp.Name = "gentable"
	myApp.Usage = "build the PCG-XSH-RR inversion table"
	myApp.Version = VERSION
	myApp.ArgsUsage = "<output-path>"
	myApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "workers",
			Value: 1,
			Usage: "number of goroutines to shard the 2^27-entry build across; 1 reproduces the original single-threaded build order bit-for-bit",
		},
		cli.BoolFlag{
			Name:  "manifest",
			Usage: "also write a <output-path>.manifest.yaml sidecar describing the build",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "suppress progress logging",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			fatal(errors.New("missing required positional argument: output path"))
		}

		logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "gentable"})
		if c.Bool("quiet") {
			logger.SetLevel(log.WarnLevel)
		}

		workers := c.Int("workers")
		fmt.Printf("[-] Building table with %d worker(s), this will take a while...\n", workers)
		logger.Info("build starting", "entries", table.EntryCount, "file_size_bytes", table.FileSize, "workers", workers)

		start := time.Now()
		entries := table.Build(workers)
		buildTime := time.Since(start)

		fmt.Printf("[+] Built and sorted %d entries in %.2f seconds.\n", len(entries), buildTime.Seconds())

		if err := table.WriteFile(path, entries); err != nil {
			fatal(errors.Wrap(err, "table.WriteFile()"))
		}
		fmt.Printf("[+] Wrote table to %s (%d bytes).\n", path, table.FileSize)

		if c.Bool("manifest") {
			m := table.BuildManifest(entries, workers, buildTime)
			manifestPath := table.ManifestPath(path)
			if err := table.WriteManifest(manifestPath, m); err != nil {
				fatal(errors.Wrap(err, "table.WriteManifest()"))
			}
			fmt.Printf("[+] Wrote manifest to %s.\n", manifestPath)
		}

		logger.Info("build complete", "elapsed", buildTime)
		return nil
	}

	myApp.Run(os.Args)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "\nfatal error: %v\n", err)
	os.Exit(1)
}
