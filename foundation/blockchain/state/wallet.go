package state

import "github.com/sofiacoin/node/foundation/blockchain/wallet"

// NewWallet generates a wallet and registers its address on the ledger with
// a zero balance.
func (s *State) NewWallet() wallet.Wallet {
	w := s.wallets.Generate()

	if s.db.RegisterAccount(w.Address) {
		s.evHandler("state: NewWallet: registered: address[%s]", w.Address)
	}

	return w
}
