package main

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "resumematch-engine"

// newRootCmd wires the command tree. Flags can also be set through
// RESUMEMATCH_* environment variables, optionally from a .env file.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("RESUMEMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           app,
		Short:         "resumematch-engine compares resumes with job descriptions and tracks applications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// a missing .env is the normal case
			_ = godotenv.Load()
		},
	}

	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("log-json", "j", false, "json format for logging")
	_ = v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("log-json", root.PersistentFlags().Lookup("log-json"))

	root.AddCommand(
		newServeCmd(v),
		newAnalyzeCmd(),
		newATSCmd(),
	)
	return root
}
