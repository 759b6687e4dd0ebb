// mapdemo exercises a mapkit table with a randomized workload: a stream of
// random keys with periodic deletes and mid-run load/grow factor changes,
// followed by a full sweep and an allocator usage report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	count     int
	seed      int64
	provider  string
	chunkSize int
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "mapdemo",
	Short: "Drive a mapkit hash table with a randomized workload",
	Long: `mapdemo inserts a stream of random fixed-width keys into a mapkit
table, deleting a random earlier key every 971 inserts and switching the
load and grow factors mid-run. It finishes with a sweep over the dense
key/value regions and a memory accounting report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().IntVarP(&count, "count", "n", 1<<20, "Number of inserts")
	rootCmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	rootCmd.Flags().
		StringVarP(&provider, "allocator", "a", "system", "Backing allocator: system, mmap or arena")
	rootCmd.Flags().
		IntVar(&chunkSize, "chunk-size", 256<<20, "Arena chunk capacity in bytes (arena allocator only)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Trace every allocator call to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
