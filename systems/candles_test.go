package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func TestCandleEmitters(t *testing.T) {
	cs := NewCandleSystem(ecs.NewWorld())
	cs.Add(10, 20, 0.5, 4, 0)
	cs.Add(30, 40, 1.0, 2, 0)

	em := cs.Emitters()
	if len(em) != 2 {
		t.Fatalf("expected 2 emitters, got %d", len(em))
	}

	var total float32
	for _, e := range em {
		total += e.Rate
	}
	if total != 1.5 {
		t.Errorf("expected total rate 1.5, got %f", total)
	}
}

func TestCandleExpiry(t *testing.T) {
	cs := NewCandleSystem(ecs.NewWorld())
	cs.Add(5, 5, 1, 3, 2)
	cs.Add(8, 8, 1, 3, 0) // permanent

	if n := cs.Update(); n != 0 {
		t.Errorf("expected no expiry after 1 frame, got %d", n)
	}
	if n := cs.Update(); n != 1 {
		t.Errorf("expected 1 expiry after 2 frames, got %d", n)
	}
	if cs.Count() != 1 {
		t.Errorf("expected permanent candle to remain, count=%d", cs.Count())
	}
	for i := 0; i < 100; i++ {
		cs.Update()
	}
	if len(cs.Emitters()) != 1 {
		t.Errorf("permanent candle should never expire")
	}
}

func TestCandleRemoveNearest(t *testing.T) {
	cs := NewCandleSystem(ecs.NewWorld())
	cs.Add(10, 10, 1, 3, 0)
	cs.Add(50, 50, 1, 3, 0)

	if cs.RemoveNearest(100, 100, 5) {
		t.Error("expected no removal outside max distance")
	}
	if !cs.RemoveNearest(12, 11, 5) {
		t.Fatal("expected removal of nearby candle")
	}

	em := cs.Emitters()
	if len(em) != 1 || em[0].X != 50 {
		t.Errorf("expected only the far candle to remain, got %+v", em)
	}
}

func TestCandleClear(t *testing.T) {
	cs := NewCandleSystem(ecs.NewWorld())
	for i := 0; i < 5; i++ {
		cs.Add(float32(i), 0, 1, 1, 10)
	}
	cs.Clear()
	if cs.Count() != 0 || len(cs.Emitters()) != 0 {
		t.Errorf("expected no candles after clear, count=%d", cs.Count())
	}
}

func TestCandleRecordsRestore(t *testing.T) {
	cs := NewCandleSystem(ecs.NewWorld())
	cs.Add(3, 4, 0.2, 5, 7)
	cs.Add(9, 1, 0.1, 2, 0)

	records := cs.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	other := NewCandleSystem(ecs.NewWorld())
	other.Add(100, 100, 1, 1, 0)
	other.Restore(records)

	if other.Count() != 2 {
		t.Errorf("expected 2 candles after restore, got %d", other.Count())
	}
	for _, r := range other.Records() {
		if r.X == 100 {
			t.Error("restore should replace existing candles")
		}
		if r.X == 3 && (r.Remaining != 7 || r.Permanent) {
			t.Errorf("expiring candle lost its lifetime: %+v", r)
		}
	}
}
