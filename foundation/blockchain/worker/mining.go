package worker

import (
	"errors"
	"time"

	"github.com/sofiacoin/node/foundation/blockchain/database"
)

// miningOperations mines a block every time transactions are submitted.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() && w.state.QueryMempoolLength() > 0 {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// tickerOperations mines a block on every tick, even when the mempool is
// empty, so rewards keep being minted.
func (w *Worker) tickerOperations() {
	w.evHandler("worker: tickerOperations: G started")
	defer w.evHandler("worker: tickerOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: tickerOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation mines the next block for the configured miner.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	t := time.Now()
	block, err := w.state.MineNewBlock(w.ctx, w.cfg.Miner)
	duration := time.Since(t)

	w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

	var txErrs database.TxErrors
	switch {
	case err == nil:
	case errors.As(err, &txErrs):
		w.evHandler("worker: runMiningOperation: MINING: WARNING: evicted: %s", txErrs)
	case errors.Is(err, database.ErrSupplyExhausted):
		w.evHandler("worker: runMiningOperation: MINING: WARNING: %s", err)
		return
	case w.ctx.Err() != nil:
		w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
		return
	default:
		w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runMiningOperation: MINING: blk[%d]: hash[%s]", block.Index, block.Hash)

	// Transactions submitted during the search need another block.
	if length := w.state.QueryMempoolLength(); length > 0 && !w.isShutdown() {
		w.evHandler("worker: runMiningOperation: MINING: signal new mining operation: txs[%d]", length)
		w.SignalStartMining()
	}
}
