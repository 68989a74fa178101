package state

import (
	"context"
	"fmt"
	"time"

	"github.com/sofiacoin/node/foundation/blockchain/database"
	"github.com/sofiacoin/node/foundation/blockchain/stats"
)

// MineNewBlock attempts to create a new block with a proper hash that can
// become the next block in the chain. The block holds every transaction in
// the mempool followed by the reward and the creator fee. The search stops
// early when the context is cancelled or the node shuts down.
//
// With strict commits enabled, transactions that would overdraw their sender
// are left out of the block, removed from the mempool, and returned as a
// database.TxErrors value along with the committed block.
func (s *State) MineNewBlock(ctx context.Context, miner database.Address) (database.Block, error) {
	if miner == "" {
		return database.Block{}, database.ErrMissingMiner
	}

	if err := s.shutdownCtx.Err(); err != nil {
		return database.Block{}, fmt.Errorf("node shutting down: %w", err)
	}

	s.mineMu.Lock()
	defer s.mineMu.Unlock()

	// The search needs to stop for either the caller or the node.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.shutdownCtx, cancel)
	defer stop()

	s.evHandler("state: MineNewBlock: MINING: snapshot: miner[%s]", miner)

	// Take the snapshot of the chain tail and the mempool.
	s.mu.Lock()
	supply := s.totalSupply
	if supply >= s.genesis.MaxSupply {
		s.mu.Unlock()
		return database.Block{}, fmt.Errorf("%w: supply[%d]: max[%d]", database.ErrSupplyExhausted, supply, s.genesis.MaxSupply)
	}
	prevBlock := s.db.LatestBlock()
	candidates := s.mempool.Copy()
	currentDifficulty := s.difficulty.Current()
	var rejected database.TxErrors
	if s.strictCommit {
		candidates, rejected = s.screenTransactions(candidates)
	}
	s.mu.Unlock()

	mint := min(s.genesis.MiningReward, s.genesis.MaxSupply-supply)
	fee := s.genesis.CreatorFee(mint)

	txs := make([]database.Tx, 0, len(candidates)+2)
	txs = append(txs, candidates...)
	if mint-fee > 0 {
		txs = append(txs, database.NewSystemTx(miner, mint-fee))
	}
	if fee > 0 {
		txs = append(txs, database.NewSystemTx(database.Address(s.genesis.CreatorAccount), fee))
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: txs[%d]: difficulty[%d]", len(txs), currentDifficulty)

	// Attempt to create a new block by solving the POW puzzle. No lock is
	// held while searching.
	start := time.Now()
	block, err := database.POW(ctx, database.POWArgs{
		PrevBlock:    prevBlock,
		Difficulty:   currentDifficulty,
		Transactions: txs,
		TimeStamp:    start,
		EvHandler:    s.evHandler,
	})
	if err != nil {
		return database.Block{}, err
	}
	searchTime := time.Since(start)

	s.evHandler("state: MineNewBlock: MINING: commit: blk[%d]", block.Index)

	nextDifficulty, err := s.commit(block, prevBlock, candidates, rejected, mint)
	if err != nil {
		return database.Block{}, err
	}

	hashrate := stats.Hashrate(block.Nonce, searchTime)
	s.stats.Record(miner, mint-fee, hashrate, block.Time())

	s.evHandler("viewer: block committed: blk[%d]: hash[%s]: miner[%s]: txs[%d]: hashrate[%.0f]: difficulty[%d]", block.Index, block.Hash, miner, len(block.Transactions), hashrate, nextDifficulty)

	if len(rejected) > 0 {
		return block, rejected
	}

	return block, nil
}

// =============================================================================

// commit applies the mined block to the chain, removes the transactions the
// block consumed from the mempool, and adjusts the supply and difficulty.
// Transactions admitted during the search stay in the mempool.
func (s *State) commit(block database.Block, prevBlock database.Block, consumed []database.Tx, rejected database.TxErrors, mint int64) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Write(block); err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(consumed)+len(rejected))
	for _, tx := range consumed {
		ids = append(ids, tx.ID)
	}
	for _, txe := range rejected {
		s.evHandler("state: commit: WARNING: tx[%s] evicted: %s", txe.Tx, txe.Err)
		ids = append(ids, txe.Tx.ID)
	}
	s.mempool.DeleteByIDs(ids)

	s.totalSupply += mint

	return s.difficulty.Adjust(s.db.Length(), elapsed(prevBlock, block)), nil
}

// screenTransactions walks the candidates in order against a copy of the
// ledger and separates the transactions that would overdraw their sender.
func (s *State) screenTransactions(txs []database.Tx) ([]database.Tx, database.TxErrors) {
	balances := s.db.CopyBalances()

	keep := make([]database.Tx, 0, len(txs))
	var rejected database.TxErrors

	for _, tx := range txs {
		if !tx.IsSystem() {
			if balance := balances[tx.From]; balance < tx.Amount {
				err := fmt.Errorf("%w: account %s has %d, needs %d", database.ErrInsufficientFundsAtCommit, tx.From, balance, tx.Amount)
				rejected = append(rejected, database.TxError{Tx: tx, Err: err})
				continue
			}
			balances[tx.From] -= tx.Amount
		}
		balances[tx.To] += tx.Amount
		keep = append(keep, tx)
	}

	return keep, rejected
}
