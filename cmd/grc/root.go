package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grlang/grc/compiler"
)

var (
	flagPropagation string
	flagParallel    bool
	flagDumpCode    string
	flagStatsDepth  int
	flagVerbose     bool
	flagConfig      string
)

// newRootCmd builds the grc command tree, mirroring the pack's
// PersistentFlags()+PersistentPreRunE wiring for global logging setup.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "grc",
		Short:             "Compiler for the GR synchronous-reactive dataflow language",
		PersistentPreRunE: initializeGlobals,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().StringVar(&flagPropagation, "propagation", "on-change", "service trigger strategy: on-change or event-isles (env: GRC_PROPAGATION)")
	root.PersistentFlags().BoolVar(&flagParallel, "para", false, "emit errgroup-based concurrent component stepping (env: GRC_PARA)")
	root.PersistentFlags().StringVar(&flagDumpCode, "dump-code", "", "directory to write generated Go source into (env: GRC_DUMP_CODE)")
	root.PersistentFlags().IntVar(&flagStatsDepth, "stats-depth", 0, "nested phase-timing report depth, 0 disables (env: GRC_STATS_DEPTH)")
	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to a grc config file (env: GRC_CONFIG)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newBuildCmd())
	return root
}

func initializeGlobals(cmd *cobra.Command, _ []string) error {
	setupDiagLogging(flagVerbose)

	v := viper.New()
	v.SetEnvPrefix("GRC")
	v.AutomaticEnv()
	if flagConfig == "" {
		flagConfig = v.GetString("config")
	}
	if flagConfig != "" {
		v.SetConfigFile(flagConfig)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", flagConfig, err)
		}
	}
	if v.IsSet("propagation") && !cmd.Flags().Changed("propagation") {
		flagPropagation = v.GetString("propagation")
	}
	if v.IsSet("para") && !cmd.Flags().Changed("para") {
		flagParallel = v.GetBool("para")
	}
	if v.IsSet("dump_code") && !cmd.Flags().Changed("dump-code") {
		flagDumpCode = v.GetString("dump_code")
	}
	if v.IsSet("stats_depth") && !cmd.Flags().Changed("stats-depth") {
		flagStatsDepth = v.GetInt("stats_depth")
	}
	return nil
}

func resolvePropagation() compiler.PropagationStrategy {
	switch flagPropagation {
	case "event-isles":
		return compiler.PropagationEventIsles
	default:
		return compiler.PropagationOnChange
	}
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <file.gr>",
		Short: "Compile a GR source file to Go",
		Args:  cobra.ExactArgs(1),
		RunE:  runBuild,
	}
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	c := compiler.New(compiler.Options{
		Propagation:  resolvePropagation(),
		Parallel:     flagParallel,
		DumpCodePath: flagDumpCode,
		StatsDepth:   flagStatsDepth,
	})

	res, errs := c.Compile(string(src), 0)
	hadErrors := reportErrors(errs)
	if res == nil {
		return fmt.Errorf("%s: parsing failed", args[0])
	}
	if res.Stats != "" {
		diagLogger.Debug(res.Stats)
	}
	if hadErrors {
		return fmt.Errorf("%s: compilation failed with %d error(s)", args[0], len(errs))
	}

	if flagDumpCode == "" {
		for id, f := range res.Components {
			out, err := compiler.RenderFile(f)
			if err != nil {
				return fmt.Errorf("rendering component %v: %w", id, err)
			}
			fmt.Println(out)
		}
		if res.Service != nil {
			out, err := compiler.RenderFile(res.Service)
			if err != nil {
				return fmt.Errorf("rendering service: %w", err)
			}
			fmt.Println(out)
		}
	}
	return nil
}
