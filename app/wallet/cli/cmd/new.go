package cmd

import (
	"log"

	"github.com/sofiacoin/node/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Ask the node for a new wallet address and seed",
	Run:   newRun,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func newRun(cmd *cobra.Command, args []string) {
	var w wallet.Wallet
	if err := post("/v1/wallets/new", nil, &w); err != nil {
		log.Fatal(err)
	}

	if err := printJSON(w); err != nil {
		log.Fatal(err)
	}
}
