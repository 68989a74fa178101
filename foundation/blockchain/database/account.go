package database

import (
	"sort"
	"sync"
)

// SystemAddress is the pseudo sender used for protocol minted value such as
// the block reward and the creator fee. Transactions from this address never
// debit a balance.
const SystemAddress Address = "SYSTEM"

// Address represents an account address that holds a balance on the ledger.
type Address string

// IsSystem reports whether this is the protocol minting address.
func (a Address) IsSystem() bool {
	return a == SystemAddress
}

// =============================================================================

// Account represents the balance information for an individual address.
type Account struct {
	Address Address `json:"address"`
	Balance int64   `json:"balance"`
}

// Ledger maintains the balances derived from applying committed transactions.
type Ledger struct {
	mu       sync.RWMutex
	balances map[Address]int64
}

// NewLedger constructs an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[Address]int64),
	}
}

// Balance returns the current balance for the address. An unknown address
// has a balance of zero.
func (l *Ledger) Balance(address Address) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[address]
}

// Register adds the address with a zero balance if it's not already known.
// It returns true when the address was added.
func (l *Ledger) Register(address Address) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.balances[address]; exists {
		return false
	}

	l.balances[address] = 0
	return true
}

// ApplyTransactions folds the transactions into the balances in list order.
// There is no failure mode here, the transactions have already been admitted
// and mined.
func (l *Ledger) ApplyTransactions(txs []Tx) {
	l.mu.Lock()
	defer l.mu.Unlock()

	applyTransactions(l.balances, txs)
}

// Copy makes a copy of the current balances.
func (l *Ledger) Copy() map[Address]int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balances := make(map[Address]int64, len(l.balances))
	for address, balance := range l.balances {
		balances[address] = balance
	}
	return balances
}

// Accounts returns the balances as a list sorted by address.
func (l *Ledger) Accounts() []Account {
	balances := l.Copy()

	accounts := make([]Account, 0, len(balances))
	for address, balance := range balances {
		accounts = append(accounts, Account{Address: address, Balance: balance})
	}
	sort.Sort(byAddress(accounts))

	return accounts
}

// =============================================================================

// Replay derives the balances by folding every transaction of every block
// in chain order.
func Replay(blocks []Block) map[Address]int64 {
	balances := make(map[Address]int64)
	for _, block := range blocks {
		applyTransactions(balances, block.Transactions)
	}
	return balances
}

// applyTransactions performs the business logic for applying transactions to
// the balance sheet. Both parties are registered before any value moves.
func applyTransactions(balances map[Address]int64, txs []Tx) {
	for _, tx := range txs {
		if _, exists := balances[tx.From]; !exists {
			balances[tx.From] = 0
		}
		if _, exists := balances[tx.To]; !exists {
			balances[tx.To] = 0
		}

		if !tx.From.IsSystem() {
			balances[tx.From] -= tx.Amount
		}

		balances[tx.To] += tx.Amount
	}
}

// =============================================================================

// byAddress provides sorting support by the address value.
type byAddress []Account

// Len returns the number of accounts in the list.
func (ba byAddress) Len() int {
	return len(ba)
}

// Less helps to sort the list by address in ascending order.
func (ba byAddress) Less(i, j int) bool {
	return ba[i].Address < ba[j].Address
}

// Swap moves accounts in the order of the address value.
func (ba byAddress) Swap(i, j int) {
	ba[i], ba[j] = ba[j], ba[i]
}
