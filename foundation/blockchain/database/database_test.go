package database_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sofiacoin/node/foundation/blockchain/database"
)

var errRead = errors.New("read failed")

// brokenStorage reports blocks it can't read.
type brokenStorage struct{}

func (brokenStorage) Write(block database.Block) error { return nil }
func (brokenStorage) GetBlock(num uint64) (database.Block, error) {
	return database.Block{}, errRead
}
func (brokenStorage) Count() uint64 { return 2 }
func (brokenStorage) ForEach() database.Iterator { return &brokenIterator{} }
func (brokenStorage) Close() error { return nil }

type brokenIterator struct{}

func (*brokenIterator) Next() (database.Block, error) { return database.Block{}, errRead }
func (*brokenIterator) Done() bool { return false }

// goodStorage holds the genesis block and fails on later reads.
type goodStorage struct {
	brokenStorage
	fail bool
}

func (g *goodStorage) ForEach() database.Iterator {
	if g.fail {
		return &brokenIterator{}
	}
	return &genesisIterator{}
}

type genesisIterator struct {
	done bool
	read bool
}

func (gi *genesisIterator) Next() (database.Block, error) {
	if gi.read {
		gi.done = true
		return database.Block{}, nil
	}
	gi.read = true
	return database.Genesis(time.Now()), nil
}
func (gi *genesisIterator) Done() bool { return gi.done }

func TestStorageErrors(t *testing.T) {
	t.Log("Given the need to report storage read failures.")
	{
		t.Logf("\tTest 0:\tWhen loading the chain.")
		{
			if _, err := database.New(brokenStorage{}, nil); !errors.Is(err, errRead) {
				t.Fatalf("\t%s\tTest 0:\tShould return the read error, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould return the read error.", success)
		}

		t.Logf("\tTest 1:\tWhen listing the blocks.")
		{
			storage := goodStorage{}
			db, err := database.New(&storage, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould load the chain: %s", failed, err)
			}

			storage.fail = true
			if _, err := db.Blocks(); !errors.Is(err, errRead) {
				t.Fatalf("\t%s\tTest 1:\tShould return the read error, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould return the read error.", success)
		}
	}
}
