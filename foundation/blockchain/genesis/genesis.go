// Package genesis maintains access to the genesis file that holds the
// economics and proof of work parameters of the chain.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// UnitsPerCoin is the number of base units in one coin.
const UnitsPerCoin = 100

// Genesis represents the genesis file. Amounts are in base units where one
// coin is 100 units.
type Genesis struct {
	Date               time.Time `json:"date" yaml:"date"`
	ChainName          string    `json:"chain_name" yaml:"chain_name"`                     // Name displayed for this chain.
	MiningReward       int64     `json:"mining_reward" yaml:"mining_reward"`               // Total value minted for each block.
	MaxSupply          int64     `json:"max_supply" yaml:"max_supply"`                     // Cap on the total value ever minted.
	CreatorAccount     string    `json:"creator_account" yaml:"creator_account"`           // Account that receives the creator fee.
	CreatorFeeBP       int64     `json:"creator_fee_bp" yaml:"creator_fee_bp"`             // Share of the reward paid to the creator in basis points.
	Difficulty         uint      `json:"difficulty" yaml:"difficulty"`                     // Difficulty in effect for the first mined block.
	DifficultyEvery    uint64    `json:"difficulty_every" yaml:"difficulty_every"`         // Fixed policy: raise difficulty every this many blocks.
	TargetBlockSeconds int64     `json:"target_block_seconds" yaml:"target_block_seconds"` // Adaptive policy: desired seconds between blocks.
	MinDifficulty      uint      `json:"min_difficulty" yaml:"min_difficulty"`             // Adaptive policy: lowest difficulty.
	MaxDifficulty      uint      `json:"max_difficulty" yaml:"max_difficulty"`             // Adaptive policy: highest difficulty.
	AddressPrefix      string    `json:"address_prefix" yaml:"address_prefix"`             // Prefix for generated wallet addresses.
}

// Default returns the genesis values the chain runs with when no genesis
// file is provided.
func Default() Genesis {
	return Genesis{
		Date:               time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainName:          "SofiaCoin",
		MiningReward:       1 * UnitsPerCoin,
		MaxSupply:          100_000_000 * UnitsPerCoin,
		CreatorAccount:     "SOFIACOIN_CREATOR",
		CreatorFeeBP:       100,
		Difficulty:         4,
		DifficultyEvery:    5,
		TargetBlockSeconds: 10,
		MinDifficulty:      1,
		MaxDifficulty:      6,
		AddressPrefix:      "SOFIA",
	}
}

// TargetBlockTime returns the target block interval as a duration.
func (g Genesis) TargetBlockTime() time.Duration {
	return time.Duration(g.TargetBlockSeconds) * time.Second
}

// CreatorFee returns the part of the block reward paid to the creator.
func (g Genesis) CreatorFee(reward int64) int64 {
	if g.CreatorAccount == "" {
		return 0
	}
	return reward * g.CreatorFeeBP / 10_000
}

// Validate checks the genesis values are usable.
func (g Genesis) Validate() error {
	switch {
	case g.MiningReward <= 0:
		return errors.New("mining reward must be positive")
	case g.MaxSupply <= 0:
		return errors.New("max supply must be positive")
	case g.CreatorFeeBP < 0 || g.CreatorFeeBP > 10_000:
		return fmt.Errorf("creator fee must be between 0 and 10000 basis points, got %d", g.CreatorFeeBP)
	}

	return nil
}

// =============================================================================

// Load opens and consumes the genesis file. The format is picked from the
// file extension, YAML for .yaml and .yml and JSON otherwise. Fields missing
// from the file keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &genesis)
	default:
		err = json.Unmarshal(content, &genesis)
	}
	if err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis %s: %w", path, err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, fmt.Errorf("validating genesis %s: %w", path, err)
	}

	return genesis, nil
}
