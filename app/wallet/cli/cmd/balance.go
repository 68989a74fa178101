package cmd

import (
	"fmt"
	"log"

	"github.com/sofiacoin/node/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Print the balance of an address",
	Args:  cobra.ExactArgs(1),
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	var acct database.Account
	if err := get("/v1/balances/"+args[0], &acct); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %d\n", acct.Address, acct.Balance)
}
