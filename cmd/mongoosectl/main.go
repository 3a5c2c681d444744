// Command mongoosectl boots a MongooseServer from a YAML config file and
// serves its metrics/health/admin surface over HTTP until terminated.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/mongoose/pkg/log"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mongoosectl",
	Short: "mongoosectl boots and operates an embeddable MongooseServer process",
	Long: `mongoosectl loads a MongooseServer configuration (sources, sinks,
processor groups, services) from YAML, boots the event-dispatch and
agent-runtime core described by the project, and exposes its metrics,
health, and admin-command surface over HTTP until the process is
terminated.`,
	Version: version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("mongoosectl version %s (%s)\n", version, commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(bootCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
