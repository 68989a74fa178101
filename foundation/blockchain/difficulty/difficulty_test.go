package difficulty_test

import (
	"testing"
	"time"

	"github.com/sofiacoin/node/foundation/blockchain/difficulty"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestFixedSchedule(t *testing.T) {
	t.Log("Given the need to raise difficulty on a fixed block schedule.")
	{
		t.Logf("\tTest 0:\tWhen incrementing every 3 blocks from difficulty 4.")
		{
			ctrl, err := difficulty.New(difficulty.StrategyFixed, difficulty.Config{Initial: 4, EveryBlocks: 3})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the controller: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to construct the controller.", success)

			// The chain holds the genesis block, so mining block n leaves a
			// chain of length n+1.
			for block := uint64(1); block <= 6; block++ {
				ctrl.Adjust(block+1, time.Second)
			}

			if got := ctrl.Current(); got != 6 {
				t.Fatalf("\t%s\tTest 0:\tShould have difficulty 6 after block 6, got %d.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould have difficulty 6 after block 6.", success)
		}

		t.Logf("\tTest 1:\tWhen the block count is missing.")
		{
			if _, err := difficulty.New(difficulty.StrategyFixed, difficulty.Config{Initial: 4}); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject the configuration.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the configuration.", success)
		}
	}
}

func TestTimeAdaptive(t *testing.T) {
	type table struct {
		name    string
		initial uint
		elapsed []time.Duration
		final   uint
	}

	const target = 10 * time.Second

	tt := []table{
		{"faster", 3, []time.Duration{time.Second}, 4},
		{"slower", 3, []time.Duration{time.Minute}, 2},
		{"equal", 3, []time.Duration{target}, 3},
		{"clampmax", 5, []time.Duration{time.Second, time.Second, time.Second}, 6},
		{"clampmin", 2, []time.Duration{time.Minute, time.Minute, time.Minute}, 1},
		{"initialclamp", 9, nil, 6},
	}

	t.Log("Given the need to adapt difficulty to the block interval.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				cfg := difficulty.Config{
					Initial:        tst.initial,
					TargetInterval: target,
					Min:            1,
					Max:            6,
				}

				ctrl, err := difficulty.New(difficulty.StrategyAdaptive, cfg)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to construct the controller: %s", failed, testID, err)
				}

				for i, elapsed := range tst.elapsed {
					ctrl.Adjust(uint64(i+2), elapsed)
				}

				if got := ctrl.Current(); got != tst.final {
					t.Fatalf("\t%s\tTest %d:\tShould end at difficulty %d, got %d.", failed, testID, tst.final, got)
				}
				t.Logf("\t%s\tTest %d:\tShould end at difficulty %d.", success, testID, tst.final)
			}

			t.Run(tst.name, f)
		}
	}
}

func TestRetrieve(t *testing.T) {
	t.Log("Given the need to select a strategy by name.")
	{
		if _, err := difficulty.Retrieve("unknown"); err == nil {
			t.Fatalf("\t%s\tShould reject an unknown strategy.", failed)
		}
		t.Logf("\t%s\tShould reject an unknown strategy.", success)

		for _, name := range []string{difficulty.StrategyFixed, difficulty.StrategyAdaptive} {
			if _, err := difficulty.Retrieve(name); err != nil {
				t.Fatalf("\t%s\tShould retrieve strategy %q: %s", failed, name, err)
			}
			t.Logf("\t%s\tShould retrieve strategy %q.", success, name)
		}
	}
}
