// Package database handles all the lower level support for maintaining the
// blockchain and the in memory ledger of account balances.
package database

import (
	"sync"
	"time"
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	Count() uint64
	ForEach() Iterator
	Close() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// Database manages the chain of blocks and the balances derived from them.
type Database struct {
	mu          sync.RWMutex
	latestBlock Block
	ledger      *Ledger
	storage     Storage
}

// New constructs a new database. When the storage is empty the genesis block
// is synthesized and written, otherwise the existing blocks are replayed to
// rebuild the balances.
func New(storage Storage, evHandler func(v string, args ...any)) (*Database, error) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	db := Database{
		ledger:  NewLedger(),
		storage: storage,
	}

	if storage.Count() == 0 {
		gen := Genesis(time.Now())
		if err := storage.Write(gen); err != nil {
			return nil, err
		}
		db.latestBlock = gen

		ev("database: New: genesis block created: hash[%s]", gen.Hash)
		return &db, nil
	}

	iter := storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		db.ledger.ApplyTransactions(block.Transactions)
		db.latestBlock = block
	}

	ev("database: New: loaded chain: blocks[%d]", storage.Count())
	return &db, nil
}

// Close closes the underlying storage.
func (db *Database) Close() error {
	return db.storage.Close()
}

// Write appends a new block to the chain and applies its transactions to
// the ledger.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Write(block); err != nil {
		return err
	}

	db.ledger.ApplyTransactions(block.Transactions)
	db.latestBlock = block

	return nil
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// Length returns the number of blocks in the chain, genesis included.
func (db *Database) Length() uint64 {
	return db.storage.Count()
}

// GetBlock returns the block at the specified index.
func (db *Database) GetBlock(num uint64) (Block, error) {
	return db.storage.GetBlock(num)
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (db *Database) ForEach() Iterator {
	return db.storage.ForEach()
}

// Blocks returns the full ordered chain.
func (db *Database) Blocks() ([]Block, error) {
	blocks := make([]Block, 0, db.storage.Count())

	iter := db.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// Balance returns the balance for the address, zero when unknown.
func (db *Database) Balance(address Address) int64 {
	return db.ledger.Balance(address)
}

// RegisterAccount adds the address to the ledger with a zero balance.
func (db *Database) RegisterAccount(address Address) bool {
	return db.ledger.Register(address)
}

// CopyBalances makes a copy of the current balances.
func (db *Database) CopyBalances() map[Address]int64 {
	return db.ledger.Copy()
}

// Accounts returns the current balances sorted by address.
func (db *Database) Accounts() []Account {
	return db.ledger.Accounts()
}
