// Package stats tracks mining statistics for each miner.
package stats

import (
	"sort"
	"sync"
	"time"

	"github.com/sofiacoin/node/foundation/blockchain/database"
)

// Miner represents the statistics recorded for an individual miner.
type Miner struct {
	Address         database.Address `json:"address"`
	BlocksFound     uint64           `json:"blocks_found"`
	TotalReward     int64            `json:"total_reward"`
	LastHashrate    float64          `json:"last_hashrate"`
	AverageHashrate float64          `json:"average_hashrate"`
	LastBlock       time.Time        `json:"last_block"`
}

// Stats maintains the statistics for all the miners.
type Stats struct {
	mu     sync.RWMutex
	miners map[database.Address]Miner
}

// New constructs a Stats value for use.
func New() *Stats {
	return &Stats{
		miners: make(map[database.Address]Miner),
	}
}

// Hashrate returns the number of attempts per second. The nonce search starts
// at zero so the nonce of the solution is the number of attempts made.
func Hashrate(nonce uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(nonce) / elapsed.Seconds()
}

// Record adds a mined block to the miner's statistics and returns the
// updated values.
func (s *Stats) Record(miner database.Address, reward int64, hashrate float64, at time.Time) Miner {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.miners[miner]
	m.Address = miner
	m.BlocksFound++
	m.TotalReward += reward
	m.LastHashrate = hashrate
	m.AverageHashrate += (hashrate - m.AverageHashrate) / float64(m.BlocksFound)
	m.LastBlock = at

	s.miners[miner] = m

	return m
}

// Copy returns the statistics for all miners sorted by address.
func (s *Stats) Copy() []Miner {
	s.mu.RLock()
	defer s.mu.RUnlock()

	miners := make([]Miner, 0, len(s.miners))
	for _, m := range s.miners {
		miners = append(miners, m)
	}
	sort.Slice(miners, func(i, j int) bool {
		return miners[i].Address < miners[j].Address
	})

	return miners
}
