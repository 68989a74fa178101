package database

import (
	"crypto/ecdsa"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/sofiacoin/node/foundation/blockchain/signature"
)

// Tx is the transactional information between two parties.
type Tx struct {
	ID        string  `json:"id"`                   // Unique id assigned when the transaction is admitted.
	From      Address `json:"from"`                 // Account being debited, SYSTEM for minted value.
	To        Address `json:"to"`                   // Account receiving the value.
	Amount    int64   `json:"amount"`               // Value in base units, must be positive.
	Signature string  `json:"signature,omitempty"`  // Hex encoded [R|S|V] signature over the signing message.
	PublicKey string  `json:"public_key,omitempty"` // Hex encoded public key used to verify the signature.
}

// NewTx constructs a new transaction with a unique id.
func NewTx(from Address, to Address, amount int64) Tx {
	return Tx{
		ID:     uuid.NewString(),
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// NewSystemTx constructs a transaction that mints value to the account.
func NewSystemTx(to Address, amount int64) Tx {
	return NewTx(SystemAddress, to, amount)
}

// Validate checks the transaction has the required fields and a positive
// amount.
func (tx Tx) Validate() error {
	switch {
	case tx.From == "":
		return fmt.Errorf("%w: missing from account", ErrInvalidTransaction)
	case tx.To == "":
		return fmt.Errorf("%w: missing to account", ErrInvalidTransaction)
	case tx.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidTransaction, tx.Amount)
	}

	return nil
}

// IsSystem reports whether the transaction mints value.
func (tx Tx) IsSystem() bool {
	return tx.From.IsSystem()
}

// SigningMessage returns the canonical message that is signed by the sender.
func (tx Tx) SigningMessage() []byte {
	return []byte(string(tx.From) + string(tx.To) + strconv.FormatInt(tx.Amount, 10))
}

// Sign uses the specified private key to sign the transaction. The public key
// is attached so the node can verify the signature.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (Tx, error) {
	sig, err := signature.Sign(tx.SigningMessage(), privateKey)
	if err != nil {
		return Tx{}, err
	}

	tx.Signature = signature.Encode(sig)
	tx.PublicKey = signature.Encode(signature.PublicKeyBytes(privateKey.PublicKey))

	return tx, nil
}

// VerifySignature checks the supplied signature over the signing message
// using the supplied public key.
func (tx Tx) VerifySignature() error {
	if tx.Signature == "" || tx.PublicKey == "" {
		return fmt.Errorf("%w: signature and public key are required", ErrInvalidSignature)
	}

	sig, err := signature.Decode(tx.Signature)
	if err != nil {
		return fmt.Errorf("%w: decoding signature: %s", ErrInvalidSignature, err)
	}

	pub, err := signature.Decode(tx.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: decoding public key: %s", ErrInvalidSignature, err)
	}

	if err := signature.Verify(tx.SigningMessage(), sig, pub); err != nil {
		return fmt.Errorf("%w: verification failed for %s", ErrInvalidSignature, tx.From)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%s->%s:%d", tx.ID, tx.From, tx.To, tx.Amount)
}
