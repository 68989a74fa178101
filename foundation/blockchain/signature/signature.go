// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidSignature is returned when a signature can't be verified against
// the provided public key.
var ErrInvalidSignature = errors.New("invalid signature")

// =============================================================================

// Hash returns the lowercase hex encoded SHA-256 digest of the data. The
// result is always 64 characters long with no 0x prefix so the leading zero
// digits can be counted directly.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// HashString returns the hash for the specified string.
func HashString(s string) string {
	return Hash([]byte(s))
}

// =============================================================================

// Sign uses the specified private key to sign the message. The signature is
// returned in the 65 byte [R|S|V] format.
func Sign(message []byte, privateKey *ecdsa.PrivateKey) ([]byte, error) {

	// Prepare the data for signing.
	data := stamp(message)

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return nil, err
	}

	// Check the public key extracted from the data and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return nil, err
	}

	rs := sig[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, rs) {
		return nil, ErrInvalidSignature
	}

	return sig, nil
}

// Verify checks the signature was produced over the message by the owner
// of the specified uncompressed or compressed public key.
func Verify(message []byte, sig []byte, publicKey []byte) error {
	if len(sig) != crypto.SignatureLength && len(sig) != crypto.RecoveryIDOffset {
		return ErrInvalidSignature
	}

	if _, err := crypto.UnmarshalPubkey(publicKey); err != nil {
		if _, err := crypto.DecompressPubkey(publicKey); err != nil {
			return ErrInvalidSignature
		}
	}

	if !crypto.VerifySignature(publicKey, stamp(message), sig[:crypto.RecoveryIDOffset]) {
		return ErrInvalidSignature
	}

	return nil
}

// PublicKeyBytes returns the uncompressed encoding of the public key.
func PublicKeyBytes(publicKey ecdsa.PublicKey) []byte {
	return crypto.FromECDSAPub(&publicKey)
}

// =============================================================================

// Encode returns the 0x prefixed hex encoding of the data.
func Encode(data []byte) string {
	return hexutil.Encode(data)
}

// Decode converts a 0x prefixed hex string back into bytes.
func Decode(s string) ([]byte, error) {
	return hexutil.Decode(s)
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this message with
// the SofiaCoin stamp embedded into the final hash.
func stamp(message []byte) []byte {

	// Hash the message into a 32 byte array. This will provide
	// a data length consistency with all messages.
	msgHash := crypto.Keccak256(message)

	// This stamp is used so signatures we produce when signing data
	// are always unique to the SofiaCoin blockchain.
	stamp := []byte("\x19SofiaCoin Signed Message:\n32")

	return crypto.Keccak256(stamp, msgHash)
}
