package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuanvm/draftguard/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "draftguard",
	Short: "Draftguard - structural edit guard for AI-assisted copywriting",
	Long: `Draftguard wraps every AI edit of a draft post in a deterministic
structural guard. A draft is parsed into a Canon (hook, body blocks, CTA,
tone) with per-section locks; edit instructions are resolved to a scope;
scoped edits go out as patch-only contracts and full rewrites carry
per-paragraph anchors. Model output is validated against the contract,
the anchors and fixed drift thresholds before anything is merged.

The guard never decides whether an edit is good - only whether it stayed
inside the scope it was given.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Draftguard.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("draftguard v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.draftguard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".draftguard"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match DRAFTGUARD_*
	viper.SetEnvPrefix("DRAFTGUARD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration: defaults overlaid with
// the config file and DRAFTGUARD_* environment variables
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration, using defaults: %v\n", err)
		cfg = model.DefaultConfig()
	}

	if cfg.Session.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Session.Dir = filepath.Join(home, ".draftguard", "sessions")
		} else {
			cfg.Session.Dir = filepath.Join(os.TempDir(), "draftguard-sessions")
		}
	}
	if cfg.Session.MemoryTTL <= 0 {
		cfg.Session.MemoryTTL = 30 * time.Minute
	}
	if cfg.Session.DiskTTL <= 0 {
		cfg.Session.DiskTTL = 24 * time.Hour
	}

	// API keys come from the environment, never the config file on disk
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg
}
