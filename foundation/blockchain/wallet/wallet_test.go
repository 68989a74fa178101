package wallet_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/sofiacoin/node/foundation/blockchain/signature"
	"github.com/sofiacoin/node/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestGenerate(t *testing.T) {
	t.Log("Given the need to generate wallets.")
	{
		gen := wallet.NewGenerator("", nil)

		w1 := gen.Generate()
		w2 := gen.Generate()

		if w1.Address == w2.Address {
			t.Fatalf("\t%s\tShould generate distinct addresses: %s", failed, w1.Address)
		}
		t.Logf("\t%s\tShould generate distinct addresses.", success)

		if n := len(strings.Fields(w1.Seed)); n != wallet.SeedWords {
			t.Fatalf("\t%s\tShould have a %d word seed, got %d.", failed, wallet.SeedWords, n)
		}
		t.Logf("\t%s\tShould have a %d word seed.", success, wallet.SeedWords)

		exp := "SOFIA" + signature.HashString(w1.Seed)[:16]
		if string(w1.Address) != exp {
			t.Logf("\t%s\tgot: %s", failed, w1.Address)
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould derive the address from the seed hash.", failed)
		}
		t.Logf("\t%s\tShould derive the address from the seed hash.", success)
	}
}

func TestDeterministicSource(t *testing.T) {
	t.Log("Given the need to reproduce wallets from a seeded source.")
	{
		g1 := wallet.NewGenerator("TEST", rand.NewPCG(1, 2))
		g2 := wallet.NewGenerator("TEST", rand.NewPCG(1, 2))

		w1, w2 := g1.Generate(), g2.Generate()
		if w1 != w2 {
			t.Fatalf("\t%s\tShould get the same wallet from the same source.", failed)
		}
		t.Logf("\t%s\tShould get the same wallet from the same source.", success)

		if !strings.HasPrefix(string(w1.Address), "TEST") || len(w1.Address) != len("TEST")+16 {
			t.Fatalf("\t%s\tShould use the configured prefix: %s", failed, w1.Address)
		}
		t.Logf("\t%s\tShould use the configured prefix.", success)
	}
}
