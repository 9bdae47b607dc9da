// Package main is the aetherscope CLI: a thin binary wiring the CORE
// components (object store, unique filter, robots filter, fetchers,
// extractor task) into a runnable crawl loop, the way the teacher's
// tools/crawler/*.go tools wire theirs. It exists to exercise the pipeline
// end to end, not as a production scheduler — the multi-criteria scheduler
// itself is explicitly out of this module's scope.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iakinsey/aetherscope/internal/buildinfo"
	"github.com/iakinsey/aetherscope/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "aetherscope",
	Short: "A general-purpose web crawler core",
	Long: `aetherscope crawls a seed set of URLs, respecting robots.txt and a
two-tier uniqueness filter, fetching via direct HTTP or a headless browser,
and streaming discovered links out of each fetch. Pointing it at a
Cassandra cluster with --signal-hosts additionally projects and upserts
the signal rows derived from each fetch.`,
}

func init() {
	config.PackageVersion = buildinfo.Version
}

// Execute runs the root command. Called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
