package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sarchlab/cachetrace/cache"
)

var (
	flagC          uint64
	flagB          uint64
	flagS          uint64
	flagV          uint64
	flagK          uint64
	flagInput      string
	flagInvariants bool
	flagHuman      bool
)

var rootCmd = &cobra.Command{
	Use:   "cachesim",
	Short: "Simulate a set-associative cache with a victim buffer and stride prefetcher",
	Long: "cachesim replays a trace of memory references against a configurable\n" +
		"cache geometry and reports hit, miss, write-back, and prefetch counters.",
}

func init() {
	defaults := cache.DefaultGeometry()

	rootCmd.PersistentFlags().Uint64VarP(&flagC, "cache-size", "c", defaults.C, "log2 of total cache capacity in bytes")
	rootCmd.PersistentFlags().Uint64VarP(&flagB, "block-size", "b", defaults.B, "log2 of block size in bytes")
	rootCmd.PersistentFlags().Uint64VarP(&flagS, "set-assoc", "s", defaults.S, "log2 of set associativity")
	rootCmd.PersistentFlags().Uint64VarP(&flagV, "victim-size", "v", defaults.V, "number of entries in the victim buffer")
	rootCmd.PersistentFlags().Uint64VarP(&flagK, "prefetch-degree", "k", defaults.K, "number of blocks the stride prefetcher installs on a confirmed stride")
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", "", "trace file to read (reads stdin if omitted)")
	rootCmd.PersistentFlags().BoolVar(&flagInvariants, "invariants", false, "enable runtime invariant checks (slower, for debugging)")
	rootCmd.PersistentFlags().BoolVarP(&flagHuman, "human", "H", true, "render a styled table instead of plain text when stdout is a terminal")

	_ = viper.BindPFlag("cache-size", rootCmd.PersistentFlags().Lookup("cache-size"))
	_ = viper.BindPFlag("block-size", rootCmd.PersistentFlags().Lookup("block-size"))
	_ = viper.BindPFlag("set-assoc", rootCmd.PersistentFlags().Lookup("set-assoc"))
	_ = viper.BindPFlag("victim-size", rootCmd.PersistentFlags().Lookup("victim-size"))
	_ = viper.BindPFlag("prefetch-degree", rootCmd.PersistentFlags().Lookup("prefetch-degree"))

	viper.SetEnvPrefix("CACHESIM")
	viper.AutomaticEnv()

	rootCmd.AddCommand(runCmd, sweepCmd, profileCmd)
}

// Execute runs the cachesim command tree.
func Execute() error {
	return rootCmd.Execute()
}

func geometryFromFlags() (cache.Geometry, error) {
	g := cache.Geometry{
		C: viper.GetUint64("cache-size"),
		B: viper.GetUint64("block-size"),
		S: viper.GetUint64("set-assoc"),
		V: viper.GetUint64("victim-size"),
		K: viper.GetUint64("prefetch-degree"),
	}
	if err := g.Validate(); err != nil {
		return cache.Geometry{}, fmt.Errorf("invalid geometry: %w", err)
	}
	return g, nil
}
