package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sofiacoin/node/foundation/blockchain/signature"
)

// GenesisPrevHash is the previous hash recorded in the genesis block.
const GenesisPrevHash = "0"

// Set of values for controlling the proof of work loop.
const (
	cancelCheckInterval = 1_000
	logInterval         = 1_000_000
)

// =============================================================================

// Block represents a group of transactions batched together and linked to
// the previous block by hash.
type Block struct {
	Index        uint64 `json:"index"`        // Position of the block in the chain, genesis is 0.
	PrevHash     string `json:"prev_hash"`    // Hash of the previous block in the chain.
	TimeStamp    int64  `json:"timestamp"`    // Time the search started in unix milliseconds.
	Transactions []Tx   `json:"transactions"` // Ordered transactions committed by this block.
	Nonce        uint64 `json:"nonce"`        // Value identified to solve the hash solution.
	Hash         string `json:"hash"`         // Hash of the block contents and nonce.
}

// Genesis constructs the first block of the chain. The genesis block has a
// fixed hash and is exempt from the proof of work rules.
func Genesis(now time.Time) Block {
	return Block{
		Index:        0,
		PrevHash:     GenesisPrevHash,
		TimeStamp:    now.UnixMilli(),
		Transactions: []Tx{},
		Nonce:        0,
		Hash:         signature.HashString("genesis"),
	}
}

// IsGenesis reports whether this is the genesis block.
func (b Block) IsGenesis() bool {
	return b.Index == 0
}

// Time returns the block timestamp as a time value.
func (b Block) Time() time.Time {
	return time.UnixMilli(b.TimeStamp)
}

// ComputeHash calculates the hash of the block from its contents.
func (b Block) ComputeHash() string {
	prefix := hashPrefix(b.PrevHash, b.TimeStamp, b.Transactions)
	return signature.Hash(strconv.AppendUint(prefix, b.Nonce, 10))
}

// ValidateBlock takes a block and validates it can follow the previous block
// at the specified difficulty.
func (b Block) ValidateBlock(previousBlock Block, difficulty uint) error {
	if b.Index != previousBlock.Index+1 {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Index, previousBlock.Index+1)
	}

	if b.PrevHash != previousBlock.Hash {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.PrevHash, previousBlock.Hash)
	}

	if hash := b.ComputeHash(); hash != b.Hash {
		return fmt.Errorf("block hash doesn't match its contents, got %s, exp %s", b.Hash, hash)
	}

	if !IsHashSolved(difficulty, b.Hash) {
		return fmt.Errorf("%s invalid block hash for difficulty %d", b.Hash, difficulty)
	}

	return nil
}

// =============================================================================

// ValidateChain walks the chain checking the genesis block, the index
// sequence, the hash linkage, and that every mined block satisfies at least
// the minimum difficulty.
func ValidateChain(blocks []Block, minDifficulty uint) error {
	if len(blocks) == 0 {
		return errors.New("chain is empty")
	}

	gen := blocks[0]
	if gen.Index != 0 || gen.PrevHash != GenesisPrevHash || gen.Hash != signature.HashString("genesis") {
		return errors.New("invalid genesis block")
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], minDifficulty); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}

	return nil
}

// IsHashSolved checks the hash to make sure it complies with the proof of
// work rules. The hash needs a leading run of at least difficulty 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if len(hash) != 64 {
		return false
	}

	return uint(LeadingZeros(hash)) >= difficulty
}

// LeadingZeros returns the length of the leading run of '0' characters.
func LeadingZeros(hash string) int {
	for i := 0; i < len(hash); i++ {
		if hash[i] != '0' {
			return i
		}
	}
	return len(hash)
}

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	PrevBlock    Block
	Difficulty   uint
	Transactions []Tx
	TimeStamp    time.Time
	EvHandler    func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. The timestamp is fixed for the whole
// search. The search has no cap on attempts and only stops early when the
// context is cancelled.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ts := args.TimeStamp
	if ts.IsZero() {
		ts = time.Now()
	}

	nb := Block{
		Index:        args.PrevBlock.Index + 1,
		PrevHash:     args.PrevBlock.Hash,
		TimeStamp:    ts.UnixMilli(),
		Transactions: args.Transactions,
		Nonce:        0,
	}

	if err := nb.performPOW(ctx, args.Difficulty, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for a specified
// block. Pointer semantics are being used since a nonce is being discovered.
func (b *Block) performPOW(ctx context.Context, difficulty uint, ev func(v string, args ...any)) error {
	ev("database: PerformPOW: MINING: started: blk[%d]: difficulty[%d]", b.Index, difficulty)
	defer ev("database: PerformPOW: MINING: completed")

	for _, tx := range b.Transactions {
		ev("database: PerformPOW: MINING: tx[%s]", tx)
	}

	// The prefix of the hash input doesn't change across nonce attempts.
	prefix := hashPrefix(b.PrevHash, b.TimeStamp, b.Transactions)
	buf := make([]byte, 0, len(prefix)+20)

	for nonce := uint64(0); ; nonce++ {
		if nonce%cancelCheckInterval == 0 && ctx.Err() != nil {
			ev("database: PerformPOW: MINING: CANCELLED: attempts[%d]", nonce)
			return ctx.Err()
		}

		if nonce > 0 && nonce%logInterval == 0 {
			ev("database: PerformPOW: MINING: attempts[%d]", nonce)
		}

		buf = append(buf[:0], prefix...)
		hash := signature.Hash(strconv.AppendUint(buf, nonce, 10))
		if !IsHashSolved(difficulty, hash) {
			continue
		}

		b.Nonce = nonce
		b.Hash = hash

		ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PrevHash, hash, nonce)
		return nil
	}
}

// =============================================================================

// CanonicalSerialize returns the deterministic, order preserving encoding of
// the transactions that is used as hash input.
func CanonicalSerialize(txs []Tx) []byte {
	if txs == nil {
		txs = []Tx{}
	}

	// Marshaling a slice of this struct type can't fail.
	data, _ := json.Marshal(txs)
	return data
}

// hashPrefix builds the portion of the hash input that precedes the nonce.
func hashPrefix(prevHash string, timeStamp int64, txs []Tx) []byte {
	data := make([]byte, 0, len(prevHash)+20+256*len(txs))
	data = append(data, prevHash...)
	data = strconv.AppendInt(data, timeStamp, 10)
	data = append(data, CanonicalSerialize(txs)...)
	return data
}
