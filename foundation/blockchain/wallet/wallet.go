// Package wallet generates mnemonic seeded addresses for new accounts. The
// seed is a display convenience only, no keys are derived or kept.
package wallet

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/sofiacoin/node/foundation/blockchain/database"
	"github.com/sofiacoin/node/foundation/blockchain/signature"
	"github.com/tyler-smith/go-bip39/wordlists"
)

// Set of defaults for wallet generation.
const (
	DefaultPrefix = "SOFIA"
	SeedWords     = 12
	addressLength = 16
)

// Wallet represents a newly generated address and the seed it came from.
type Wallet struct {
	Address database.Address `json:"address"`
	Seed    string           `json:"seed"`
}

// Generator produces wallets from a fixed word list.
type Generator struct {
	prefix string
	words  []string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator constructs a generator using the BIP-39 English word list.
// When src is nil the generator draws from a randomly seeded source.
func NewGenerator(prefix string, src rand.Source) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	return &Generator{
		prefix: prefix,
		words:  wordlists.English,
		rnd:    rand.New(src),
	}
}

// Generate draws SeedWords words with replacement to form the seed and
// derives the address from it.
func (g *Generator) Generate() Wallet {
	words := make([]string, SeedWords)

	g.mu.Lock()
	{
		for i := range words {
			words[i] = g.words[g.rnd.IntN(len(g.words))]
		}
	}
	g.mu.Unlock()

	seed := strings.Join(words, " ")

	return Wallet{
		Address: DeriveAddress(g.prefix, seed),
		Seed:    seed,
	}
}

// DeriveAddress returns the address for the seed, the prefix followed by
// the first 16 characters of the seed hash.
func DeriveAddress(prefix string, seed string) database.Address {
	return database.Address(prefix + signature.HashString(seed)[:addressLength])
}
