package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	networkPath      string
	probabilitiesPath string
	algebraName      string
	verbose          bool

	cfg = viper.New()
	log = logrus.New()
)

// rootCmd is reachdag's single command: load a network and its
// probabilities, propagate belief under the chosen algebra, write the
// result to stdout as JSON.
var rootCmd = &cobra.Command{
	Use:   "reachdag",
	Short: "Exact reachability/belief propagation on probabilistic DAGs",
	Long: `reachdag computes exact per-node belief values on a probabilistic
directed acyclic graph: every node carries a prior, every edge carries a
transmission probability, and shared-ancestor "diamond" convergences are
resolved exactly via conditioning rather than approximated.`,
	RunE: runPropagate,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.Flags().StringVar(&networkPath, "network", "", "path to the network CSV (required)")
	rootCmd.Flags().StringVar(&probabilitiesPath, "probabilities", "", "path to the JSON probability side-car (required for interval/slice algebras)")
	rootCmd.Flags().StringVar(&algebraName, "algebra", "point", "probability algebra: point, interval, or slice")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = rootCmd.MarkFlagRequired("network")

	cfg.SetEnvPrefix("REACHDAG")
	cfg.AutomaticEnv()
	cfg.SetDefault("slice.tolerance", 1e-6)
	cfg.SetDefault("slice.prune-below", 0.0)
	cfg.SetDefault("conditioning.max-set", 0)
	_ = cfg.BindPFlag("network", rootCmd.Flags().Lookup("network"))
	_ = cfg.BindPFlag("probabilities", rootCmd.Flags().Lookup("probabilities"))
	_ = cfg.BindPFlag("algebra", rootCmd.Flags().Lookup("algebra"))
}

// Execute runs the root command; main.go calls this and exits non-zero on
// any returned error.
func Execute() error {
	return rootCmd.Execute()
}

func configureLogging() {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}
