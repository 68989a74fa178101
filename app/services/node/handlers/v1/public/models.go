package public

import (
	"math"

	"github.com/sofiacoin/node/foundation/blockchain/database"
	"github.com/sofiacoin/node/foundation/blockchain/genesis"
	"github.com/sofiacoin/node/foundation/blockchain/state"
)

// NewTx is what a client provides to submit a transaction. The signature and
// public key are hex encoded and only required when the node runs in signed
// mode. Value is only minted by the node so SYSTEM can't be a sender.
type NewTx struct {
	From      string `json:"from" validate:"required,ne=SYSTEM"`
	To        string `json:"to" validate:"required"`
	Amount    int64  `json:"amount" validate:"gt=0"`
	Signature string `json:"signature,omitempty" validate:"omitempty,hexadecimal"`
	PublicKey string `json:"public_key,omitempty" validate:"omitempty,hexadecimal"`
}

func (ntx NewTx) toDBTx() database.Tx {
	return database.Tx{
		From:      database.Address(ntx.From),
		To:        database.Address(ntx.To),
		Amount:    ntx.Amount,
		Signature: ntx.Signature,
		PublicKey: ntx.PublicKey,
	}
}

// MineRequest names the account that receives the reward. A missing miner
// is reported by the ledger.
type MineRequest struct {
	Miner string `json:"miner"`
}

type submitted struct {
	Status string      `json:"status"`
	Tx     database.Tx `json:"tx"`
}

type rejectedTx struct {
	Tx    database.Tx `json:"tx"`
	Error string      `json:"error"`
}

type mined struct {
	Block    database.Block `json:"block"`
	Rejected []rejectedTx   `json:"rejected,omitempty"`
}

type accounts struct {
	LatestBlock string             `json:"latest_block"`
	Uncommitted int                `json:"uncommitted"`
	Accounts    []database.Account `json:"accounts"`
}

type verified struct {
	Valid  bool   `json:"valid"`
	Blocks uint64 `json:"blocks"`
	Error  string `json:"error,omitempty"`
}

// =============================================================================
// These are the bodies of the original service routes. Amounts are in coins.

type legacyTx struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

func (lt legacyTx) toNewTx() NewTx {
	return NewTx{
		From:   lt.From,
		To:     lt.To,
		Amount: toUnits(lt.Amount),
	}
}

type legacyBlock struct {
	Index        uint64     `json:"index"`
	PrevHash     string     `json:"prevHash"`
	TimeStamp    int64      `json:"timestamp"`
	Transactions []legacyTx `json:"transactions"`
	Nonce        uint64     `json:"nonce"`
	Hash         string     `json:"hash"`
}

func toLegacyBlock(b database.Block) legacyBlock {
	txs := make([]legacyTx, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = legacyTx{
			From:   string(tx.From),
			To:     string(tx.To),
			Amount: toCoins(tx.Amount),
		}
	}

	return legacyBlock{
		Index:        b.Index,
		PrevHash:     b.PrevHash,
		TimeStamp:    b.TimeStamp,
		Transactions: txs,
		Nonce:        b.Nonce,
		Hash:         b.Hash,
	}
}

func toLegacyBlocks(blocks []database.Block) []legacyBlock {
	out := make([]legacyBlock, len(blocks))
	for i, b := range blocks {
		out[i] = toLegacyBlock(b)
	}
	return out
}

type legacySubmitted struct {
	Success bool `json:"success"`
}

type legacyMined struct {
	Success bool        `json:"success"`
	Block   legacyBlock `json:"block"`
}

type legacyBalance struct {
	Balance float64 `json:"balance"`
}

type legacyStats struct {
	Blocks     uint64  `json:"blocks"`
	Supply     float64 `json:"supply"`
	Difficulty uint    `json:"difficulty"`
}

func toLegacyStats(s state.Stats) legacyStats {
	return legacyStats{
		Blocks:     s.Blocks,
		Supply:     toCoins(s.TotalSupply),
		Difficulty: s.Difficulty,
	}
}

// toUnits converts coins to base units. Fractions below one unit are lost.
func toUnits(coins float64) int64 {
	units := math.Round(coins * genesis.UnitsPerCoin)
	if units >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(units)
}

func toCoins(units int64) float64 {
	return float64(units) / genesis.UnitsPerCoin
}
