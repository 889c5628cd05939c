// Command snaprag is the pipeline's CLI front end: it loads
// config.toml, wires the storage/sync/embedder/retrieval/api layers,
// and exposes them as subcommands. Exit code 0 on success, non-zero on
// any core error; output is plain text / UTF-8.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snaprag/snaprag/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snaprag",
	Short: "snaprag indexes a Snapchain-style shard set into Postgres and serves retrieval over it",
	Long: `snaprag ingests sharded blockchain social-graph events (casts, reactions,
links, verifications, profile changes) into Postgres, backfills vector
embeddings over cast text, and answers semantic/keyword/hybrid search
and per-user ranked retrieval over the result.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"snaprag version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Path to config.toml (default: $SNAPRAG_CONFIG or ./config.toml)")
	rootCmd.PersistentFlags().String("lock", "", "Path to the lifecycle lockfile (default: ./snaprag.lock)")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
