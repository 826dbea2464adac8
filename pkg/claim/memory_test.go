package claim

import (
	"context"
	"sync"
	"testing"
	"time"

	"clubhouse/pkg/model"
)

func testPeriod(t *testing.T) model.Period {
	t.Helper()
	start := time.Date(2026, 5, 2, 20, 0, 0, 0, time.UTC)
	p, err := model.NewPeriod(start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestMemoryClaimer_ExactlyOneWinner(t *testing.T) {
	claimer := NewMemoryClaimer(time.Minute)
	period := testPeriod(t)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	results := make([]bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			won, err := claimer.Claim(ctx, "resource-1", period)
			if err != nil {
				t.Errorf("attempt %d: unexpected error: %v", idx, err)
				return
			}
			results[idx] = won
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, won := range results {
		if won {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly 1 winner, got %d", winners)
	}
}

func TestMemoryClaimer_ReleaseFreesSlot(t *testing.T) {
	claimer := NewMemoryClaimer(time.Minute)
	period := testPeriod(t)
	ctx := context.Background()

	won, err := claimer.Claim(ctx, "resource-1", period)
	if err != nil || !won {
		t.Fatalf("expected first claim to win, got won=%v err=%v", won, err)
	}

	if err := claimer.Release(ctx, "resource-1", period); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}

	won, err = claimer.Claim(ctx, "resource-1", period)
	if err != nil || !won {
		t.Errorf("expected claim after release to win, got won=%v err=%v", won, err)
	}
}

func TestMemoryClaimer_DistinctKeysAreIndependent(t *testing.T) {
	claimer := NewMemoryClaimer(time.Minute)
	period := testPeriod(t)
	ctx := context.Background()

	if won, _ := claimer.Claim(ctx, "resource-1", period); !won {
		t.Fatal("expected claim on resource-1 to win")
	}
	if won, _ := claimer.Claim(ctx, "resource-2", period); !won {
		t.Error("expected same period on a different resource to win")
	}

	adjacent := model.Period{Start: period.End, End: period.End.Add(time.Hour)}
	if won, _ := claimer.Claim(ctx, "resource-1", adjacent); !won {
		t.Error("expected adjacent period on the same resource to win")
	}
}

func TestMemoryClaimer_ExpiredClaimIsReclaimable(t *testing.T) {
	claimer := NewMemoryClaimer(10 * time.Millisecond)
	period := testPeriod(t)
	ctx := context.Background()

	if won, _ := claimer.Claim(ctx, "resource-1", period); !won {
		t.Fatal("expected first claim to win")
	}

	time.Sleep(20 * time.Millisecond)

	if won, _ := claimer.Claim(ctx, "resource-1", period); !won {
		t.Error("expected expired claim to be reclaimable")
	}
}

func TestKey_StableAcrossZones(t *testing.T) {
	period := testPeriod(t)
	loc := time.FixedZone("UTC+9", 9*60*60)
	shifted := model.Period{Start: period.Start.In(loc), End: period.End.In(loc)}

	if Key("r1", period) != Key("r1", shifted) {
		t.Error("expected identical keys for the same instant in different zones")
	}
}
