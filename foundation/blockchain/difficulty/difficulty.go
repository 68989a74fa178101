// Package difficulty provides the different policies for adjusting the proof
// of work difficulty after a block is committed.
package difficulty

import (
	"fmt"
	"sync"
	"time"
)

// List of different adjustment strategies.
const (
	StrategyFixed    = "fixed"
	StrategyAdaptive = "adaptive"
)

// Map of different adjustment strategies with functions.
var strategies = map[string]Func{
	StrategyFixed:    fixedSchedule,
	StrategyAdaptive: timeAdaptive,
}

// Config represents the parameters consulted by the strategies.
type Config struct {
	Initial        uint          // Difficulty in effect for the first mined block.
	EveryBlocks    uint64        // Fixed: increment when the chain length is a multiple of this.
	TargetInterval time.Duration // Adaptive: the desired time between blocks.
	Min            uint          // Adaptive: lowest difficulty allowed.
	Max            uint          // Adaptive: highest difficulty allowed.
}

// Info represents what is known about the block that was just committed.
type Info struct {
	Current     uint          // Difficulty the block was mined at.
	ChainLength uint64        // Length of the chain after the block was appended.
	Elapsed     time.Duration // Time between the two most recent blocks.
}

// Func defines a function that takes the configuration and the information
// about the latest commit and returns the difficulty for the next block.
type Func func(cfg Config, info Info) uint

// Retrieve returns the specified adjustment strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// Controller maintains the current difficulty and applies the configured
// strategy after every commit.
type Controller struct {
	mu       sync.RWMutex
	cfg      Config
	fn       Func
	strategy string
	current  uint
}

// New constructs a controller for the specified strategy.
func New(strategy string, cfg Config) (*Controller, error) {
	fn, err := Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	if strategy == StrategyFixed && cfg.EveryBlocks == 0 {
		return nil, fmt.Errorf("strategy %q requires a block count", strategy)
	}

	if strategy == StrategyAdaptive {
		if cfg.TargetInterval <= 0 {
			return nil, fmt.Errorf("strategy %q requires a target interval", strategy)
		}
		if cfg.Min > cfg.Max {
			return nil, fmt.Errorf("invalid difficulty range [%d, %d]", cfg.Min, cfg.Max)
		}
		cfg.Initial = clamp(cfg.Initial, cfg.Min, cfg.Max)
	}

	c := Controller{
		cfg:      cfg,
		fn:       fn,
		strategy: strategy,
		current:  cfg.Initial,
	}

	return &c, nil
}

// Strategy returns the name of the strategy in use.
func (c *Controller) Strategy() string {
	return c.strategy
}

// Current returns the difficulty the next block must be mined at.
func (c *Controller) Current() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.current
}

// Adjust applies the strategy for the block that was just committed and
// returns the new difficulty.
func (c *Controller) Adjust(chainLength uint64, elapsed time.Duration) uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.fn(c.cfg, Info{
		Current:     c.current,
		ChainLength: chainLength,
		Elapsed:     elapsed,
	})

	return c.current
}

// =============================================================================

// fixedSchedule increments the difficulty by one every time the chain
// length becomes a multiple of the configured block count. The difficulty
// never decreases and has no upper bound.
func fixedSchedule(cfg Config, info Info) uint {
	if cfg.EveryBlocks > 0 && info.ChainLength%cfg.EveryBlocks == 0 {
		return info.Current + 1
	}
	return info.Current
}

// timeAdaptive increments the difficulty when the last block was mined
// faster than the target and decrements it when slower. The result is
// clamped to the configured range.
func timeAdaptive(cfg Config, info Info) uint {
	next := info.Current

	switch {
	case info.Elapsed < cfg.TargetInterval:
		next++
	case info.Elapsed > cfg.TargetInterval && next > 0:
		next--
	}

	return clamp(next, cfg.Min, cfg.Max)
}

// clamp keeps the value inside the range.
func clamp(v uint, lo uint, hi uint) uint {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
