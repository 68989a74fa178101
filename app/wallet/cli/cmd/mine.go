package cmd

import (
	"fmt"
	"log"

	"github.com/sofiacoin/node/app/services/node/handlers/v1/public"
	"github.com/sofiacoin/node/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var miner string

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the next block",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&miner, "miner", "m", "", "Address receiving the reward.")
}

func mineRun(cmd *cobra.Command, args []string) {
	req := public.MineRequest{
		Miner: miner,
	}

	var resp struct {
		Block    database.Block `json:"block"`
		Rejected []struct {
			Tx    database.Tx `json:"tx"`
			Error string      `json:"error"`
		} `json:"rejected"`
	}
	if err := post("/v1/mining/mine", req, &resp); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Block %d mined: hash[%s] nonce[%d] txs[%d]\n", resp.Block.Index, resp.Block.Hash, resp.Block.Nonce, len(resp.Block.Transactions))
	for _, r := range resp.Rejected {
		fmt.Printf("Rejected %s: %s\n", r.Tx.ID, r.Error)
	}
}
