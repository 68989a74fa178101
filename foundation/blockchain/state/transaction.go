package state

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sofiacoin/node/foundation/blockchain/database"
)

// SubmitTransaction accepts a transaction for inclusion in the next block.
// The balance check is made against the committed ledger and is not repeated
// when the transaction is committed.
func (s *State) SubmitTransaction(tx database.Tx) (database.Tx, error) {
	if err := tx.Validate(); err != nil {
		return database.Tx{}, err
	}

	if s.signatureRequired && !tx.IsSystem() {
		if err := tx.VerifySignature(); err != nil {
			return database.Tx{}, err
		}
	}

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	// The check and the append must not interleave with a commit so the
	// transaction is either in the snapshot of a mine or left for the next.
	s.mu.Lock()
	{
		if !tx.IsSystem() {
			if balance := s.db.Balance(tx.From); balance < tx.Amount {
				s.mu.Unlock()
				return database.Tx{}, fmt.Errorf("%w: account %s has %d, needs %d", database.ErrInsufficientFunds, tx.From, balance, tx.Amount)
			}
		}

		n, err := s.mempool.Upsert(tx)
		if err != nil {
			s.mu.Unlock()
			return database.Tx{}, err
		}

		s.evHandler("viewer: tx submitted: tx[%s]: mempool[%d]", tx, n)
	}
	s.mu.Unlock()

	s.Worker.SignalStartMining()

	return tx, nil
}
