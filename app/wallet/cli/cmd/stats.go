package cmd

import (
	"log"

	"github.com/sofiacoin/node/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the chain and miner statistics",
	Run:   statsRun,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func statsRun(cmd *cobra.Command, args []string) {
	var stats state.Stats
	if err := get("/v1/stats", &stats); err != nil {
		log.Fatal(err)
	}

	if err := printJSON(stats); err != nil {
		log.Fatal(err)
	}
}
