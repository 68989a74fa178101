// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sofiacoin/node/foundation/blockchain/database"
	"github.com/sofiacoin/node/foundation/blockchain/difficulty"
	"github.com/sofiacoin/node/foundation/blockchain/genesis"
	"github.com/sofiacoin/node/foundation/blockchain/mempool"
	"github.com/sofiacoin/node/foundation/blockchain/stats"
	"github.com/sofiacoin/node/foundation/blockchain/wallet"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Genesis            genesis.Genesis
	Storage            database.Storage
	DifficultyStrategy string
	SignatureRequired  bool
	StrictCommit       bool
	WalletSource       rand.Source
	EvHandler          EventHandler
}

// State manages the blockchain database.
type State struct {
	genesis           genesis.Genesis
	signatureRequired bool
	strictCommit      bool
	evHandler         EventHandler
	diffStrategy      string
	diffCfg           difficulty.Config

	// mu serializes admission checks with the commit step of a mine.
	mu          sync.Mutex
	totalSupply int64

	// mineMu allows only one mine at a time.
	mineMu sync.Mutex

	db         *database.Database
	mempool    *mempool.Mempool
	difficulty *difficulty.Controller
	stats      *stats.Stats
	wallets    *wallet.Generator

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
	shutdownOnce   sync.Once

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	strategy := cfg.DifficultyStrategy
	if strategy == "" {
		strategy = difficulty.StrategyFixed
	}

	diffCfg := difficulty.Config{
		Initial:        cfg.Genesis.Difficulty,
		EveryBlocks:    cfg.Genesis.DifficultyEvery,
		TargetInterval: cfg.Genesis.TargetBlockTime(),
		Min:            cfg.Genesis.MinDifficulty,
		Max:            cfg.Genesis.MaxDifficulty,
	}

	ctrl, err := difficulty.New(strategy, diffCfg)
	if err != nil {
		return nil, err
	}

	// Access the storage for the blockchain. An empty storage gets the
	// genesis block.
	db, err := database.New(cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	state := State{
		genesis:           cfg.Genesis,
		signatureRequired: cfg.SignatureRequired,
		strictCommit:      cfg.StrictCommit,
		evHandler:         ev,
		diffStrategy:      strategy,
		diffCfg:           diffCfg,

		db:         db,
		mempool:    mempool.New(),
		difficulty: ctrl,
		stats:      stats.New(),
		wallets:    wallet.NewGenerator(cfg.Genesis.AddressPrefix, cfg.WalletSource),

		shutdownCtx:    ctx,
		shutdownCancel: cancel,

		Worker: nopWorker{},
	}

	// Blocks already in storage need the supply and difficulty they produced.
	if err := state.replay(); err != nil {
		cancel()
		return nil, err
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down. Any search in progress is
// cancelled. Calls after the first do nothing.
func (s *State) Shutdown() error {
	var err error

	s.shutdownOnce.Do(func() {
		s.evHandler("state: Shutdown: started")
		defer s.evHandler("state: Shutdown: completed")

		s.shutdownCancel()

		// Stop all blockchain writing activity.
		s.Worker.Shutdown()

		// Wait for a mine in flight to return.
		s.mineMu.Lock()
		defer s.mineMu.Unlock()

		// Make sure the storage is properly closed.
		err = s.db.Close()
	})

	return err
}

// =============================================================================

// replay walks the stored chain to rebuild the total supply and the
// difficulty reached by the existing blocks.
func (s *State) replay() error {
	var prev database.Block
	var mined int64

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return err
		}

		if !block.IsGenesis() {
			mined++
			s.difficulty.Adjust(block.Index+1, elapsed(prev, block))
		}
		prev = block
	}

	// Each mint is min(reward, remaining) so n blocks mint min(n*reward, max).
	s.totalSupply = min(mined*s.genesis.MiningReward, s.genesis.MaxSupply)

	if mined > 0 {
		s.evHandler("state: replay: blocks[%d]: supply[%d]: difficulty[%d]", mined, s.totalSupply, s.difficulty.Current())
	}

	return nil
}

// =============================================================================

// nopWorker is used until a worker assigns itself.
type nopWorker struct{}

func (nopWorker) Shutdown()          {}
func (nopWorker) SignalStartMining() {}

// elapsed returns the time between two block timestamps, zero for the
// genesis block.
func elapsed(prev database.Block, next database.Block) time.Duration {
	if next.IsGenesis() {
		return 0
	}
	return next.Time().Sub(prev.Time())
}
