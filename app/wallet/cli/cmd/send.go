package cmd

import (
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sofiacoin/node/app/services/node/handlers/v1/public"
	"github.com/sofiacoin/node/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount int64
	sign   bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Address sending the value.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address receiving the value.")
	sendCmd.Flags().Int64VarP(&amount, "amount", "v", 0, "Value to send in base units.")
	sendCmd.Flags().BoolVarP(&sign, "sign", "s", false, "Sign the transaction with the key file.")
}

func sendRun(cmd *cobra.Command, args []string) {
	tx, err := buildTx(database.Address(from), database.Address(to), amount)
	if err != nil {
		log.Fatal(err)
	}

	var resp struct {
		Status string      `json:"status"`
		Tx     database.Tx `json:"tx"`
	}
	ntx := public.NewTx{
		From:      string(tx.From),
		To:        string(tx.To),
		Amount:    tx.Amount,
		Signature: tx.Signature,
		PublicKey: tx.PublicKey,
	}
	if err := post("/v1/tx/submit", ntx, &resp); err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.Status, resp.Tx.ID)
}

// buildTx constructs the transaction and signs it when asked. The node
// assigns the id on admission.
func buildTx(from database.Address, to database.Address, amount int64) (database.Tx, error) {
	tx := database.Tx{
		From:   from,
		To:     to,
		Amount: amount,
	}

	if err := tx.Validate(); err != nil {
		return database.Tx{}, err
	}

	if !sign {
		return tx, nil
	}

	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return database.Tx{}, err
	}

	return tx.Sign(privateKey)
}
