package state

import (
	"fmt"

	"github.com/sofiacoin/node/foundation/blockchain/database"
	"github.com/sofiacoin/node/foundation/blockchain/difficulty"
	"github.com/sofiacoin/node/foundation/blockchain/stats"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// Stats represents the state of the chain and its miners.
type Stats struct {
	Blocks       uint64        `json:"blocks"`
	TotalSupply  int64         `json:"total_supply"`
	MaxSupply    int64         `json:"max_supply"`
	MiningReward int64         `json:"mining_reward"`
	Difficulty   uint          `json:"difficulty"`
	Strategy     string        `json:"strategy"`
	Mempool      int           `json:"mempool"`
	LatestHash   string        `json:"latest_hash"`
	Miners       []stats.Miner `json:"miners"`
}

// =============================================================================

// QueryChain returns the full chain starting with the genesis block.
func (s *State) QueryChain() ([]database.Block, error) {
	return s.db.Blocks()
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	latest := s.db.LatestBlock().Index

	if from == QueryLatest {
		from = latest
		to = from
	}
	if to == QueryLatest || to > latest {
		to = latest
	}

	var out []database.Block
	for i := from; i <= to; i++ {
		block, err := s.db.GetBlock(i)
		if err != nil {
			s.evHandler("state: QueryBlocksByNumber: ERROR: %s", err)
			return nil
		}
		out = append(out, block)
	}

	return out
}

// QueryBlocksByAccount returns the set of blocks holding a transaction to or
// from the account. If the account is empty, all blocks are returned.
func (s *State) QueryBlocksByAccount(address database.Address) ([]database.Block, error) {
	var out []database.Block

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if address == "" {
			out = append(out, block)
			continue
		}

		for _, tx := range block.Transactions {
			if tx.From == address || tx.To == address {
				out = append(out, block)
				break
			}
		}
	}

	return out, nil
}

// QueryBalance returns the balance for the address. An address the ledger
// has never seen has a balance of zero.
func (s *State) QueryBalance(address database.Address) database.Account {
	return database.Account{
		Address: address,
		Balance: s.db.Balance(address),
	}
}

// QueryBalances returns the balances of every known account.
func (s *State) QueryBalances() []database.Account {
	return s.db.Accounts()
}

// QueryMempool returns a copy of the mempool in arrival order.
func (s *State) QueryMempool() []database.Tx {
	return s.mempool.Copy()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryDifficulty returns the difficulty the next block must be mined at.
func (s *State) QueryDifficulty() uint {
	return s.difficulty.Current()
}

// QueryStats returns the chain statistics and the per miner statistics.
func (s *State) QueryStats() Stats {
	s.mu.Lock()
	supply := s.totalSupply
	latest := s.db.LatestBlock()
	s.mu.Unlock()

	return Stats{
		Blocks:       latest.Index + 1,
		TotalSupply:  supply,
		MaxSupply:    s.genesis.MaxSupply,
		MiningReward: s.genesis.MiningReward,
		Difficulty:   s.difficulty.Current(),
		Strategy:     s.difficulty.Strategy(),
		Mempool:      s.mempool.Count(),
		LatestHash:   latest.Hash,
		Miners:       s.stats.Copy(),
	}
}

// ValidateChain checks the genesis block and the linkage of the chain, then
// replays the difficulty policy to check each block was mined at the
// difficulty in effect at the time. The running balances must equal the fold
// of every transaction in the chain.
func (s *State) ValidateChain() error {

	// A commit writes the block and applies it to the ledger under mu.
	s.mu.Lock()
	blocks, err := s.db.Blocks()
	balances := s.db.CopyBalances()
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if err := validateBalances(balances, database.Replay(blocks)); err != nil {
		return err
	}

	if err := database.ValidateChain(blocks, 0); err != nil {
		return err
	}

	ctrl, err := difficulty.New(s.diffStrategy, s.diffCfg)
	if err != nil {
		return err
	}

	for i := 1; i < len(blocks); i++ {
		if !database.IsHashSolved(ctrl.Current(), blocks[i].Hash) {
			return fmt.Errorf("block %d: hash %s does not meet difficulty %d", i, blocks[i].Hash, ctrl.Current())
		}
		ctrl.Adjust(uint64(i+1), elapsed(blocks[i-1], blocks[i]))
	}

	return nil
}

// validateBalances compares the running balances with the replayed ones. An
// address registered by a wallet but never used is only in the running set
// and has a zero balance.
func validateBalances(running map[database.Address]int64, replayed map[database.Address]int64) error {
	for address, balance := range replayed {
		if running[address] != balance {
			return fmt.Errorf("account %s: balance %d does not match chain %d", address, running[address], balance)
		}
	}

	for address, balance := range running {
		if _, exists := replayed[address]; !exists && balance != 0 {
			return fmt.Errorf("account %s: balance %d is not in the chain", address, balance)
		}
	}

	return nil
}
