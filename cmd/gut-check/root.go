// cmd/gut-check/root.go
package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mcp-gut-check/internal/config"
)

var (
	cfgFile  string
	noDotEnv bool
)

var rootCmd = &cobra.Command{
	Use:   "gut-check",
	Short: "Gut-health diary with food trigger and pattern insights",
	Long: `gut-check stores meals, symptoms and wearable data, and analyzes them
for food triggers, temporal patterns, lifestyle correlations and nutrition
trends. It is exposed as MCP tools over HTTP or stdio.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !noDotEnv {
			loadDotEnv()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVar(&noDotEnv, "no-dotenv", false, "skip loading .env files")
}

// loadDotEnv loads .env.local then .env from the working directory. Variables
// already set in the environment win.
func loadDotEnv() {
	for _, p := range []string{".env.local", ".env"} {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			log.Printf("[config] failed to load %s: %v", p, err)
		} else {
			log.Printf("[config] loaded env from %s", p)
		}
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
