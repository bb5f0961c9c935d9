package memory

import (
	"reflect"
	"testing"

	"github.com/wbrown/qdb-core/interval"
	"github.com/wbrown/qdb-core/predicate"
	"github.com/wbrown/qdb-core/value"
)

func TestMachineCompressesConsecutiveInsertsIntoOneInterval(t *testing.T) {
	m := NewMachine()
	m.Insert(value.NewNull())
	m.Insert(value.NewNull())
	m.Insert(value.NewNull())
	m.Insert(value.NewReal(32.0))
	m.Insert(value.NewReal(64.0))
	m.Insert(value.NewNull())

	nullHist, ok := m.Get(value.NewNull())
	if !ok {
		t.Fatal("expected Null to be present")
	}
	wantNull := interval.History{{Lo: 0, Hi: 2}, {Lo: 5, Hi: 5}}
	if !reflect.DeepEqual(nullHist, wantNull) {
		t.Errorf("Null history = %v, want %v", nullHist, wantNull)
	}

	h32, _ := m.Get(value.NewReal(32.0))
	if !reflect.DeepEqual(h32, interval.History{{Lo: 3, Hi: 3}}) {
		t.Errorf("32.0 history = %v", h32)
	}

	h64, _ := m.Get(value.NewReal(64.0))
	if !reflect.DeepEqual(h64, interval.History{{Lo: 4, Hi: 4}}) {
		t.Errorf("64.0 history = %v", h64)
	}

	if m.Clock() != 6 {
		t.Errorf("clock = %d, want 6", m.Clock())
	}
}

func TestMachineLastValueIsMostRecentInsert(t *testing.T) {
	m := NewMachine()
	m.Insert(value.NewNull())
	m.Insert(value.NewNull())
	m.Insert(value.NewNull())
	m.Insert(value.NewReal(32.0))

	last, ok := m.LastValue()
	if !ok {
		t.Fatal("expected a last value")
	}
	if value.Compare(last, value.NewReal(32.0)) != 0 {
		t.Errorf("last value = %v, want 32.0", last)
	}
}

func TestMachineLastValueEmpty(t *testing.T) {
	m := NewMachine()
	if _, ok := m.LastValue(); ok {
		t.Fatal("empty machine should have no last value")
	}
}

// Universal invariant 1: clock equals insert count.
func TestMachineClockEqualsInsertCount(t *testing.T) {
	m := NewMachine()
	n := 17
	for i := 0; i < n; i++ {
		m.Insert(value.NewInt(int64(i % 3)))
	}
	if m.Clock() != int64(n) {
		t.Errorf("clock = %d, want %d", m.Clock(), n)
	}
}

// Universal invariant 2: union of intervals covers [0, n-1] with no overlap.
func TestMachineUnionCoversRangeNoOverlap(t *testing.T) {
	m := NewMachine()
	seq := []value.Value{
		value.NewInt(1), value.NewInt(1), value.NewInt(2),
		value.NewInt(1), value.NewInt(3), value.NewInt(3), value.NewInt(3),
	}
	for _, v := range seq {
		m.Insert(v)
	}

	covered := make(map[int64]int)
	for _, v := range []value.Value{value.NewInt(1), value.NewInt(2), value.NewInt(3)} {
		h, ok := m.Get(v)
		if !ok {
			continue
		}
		for _, iv := range h {
			for tick := iv.Lo; tick <= iv.Hi; tick++ {
				covered[tick]++
			}
		}
	}
	for tick := int64(0); tick < m.Clock(); tick++ {
		if covered[tick] != 1 {
			t.Errorf("tick %d covered %d times, want exactly 1", tick, covered[tick])
		}
	}
}

// Universal invariant 3: k repeats in a row yield one interval.
func TestMachineRepeatedInsertsCompressToOneInterval(t *testing.T) {
	m := NewMachine()
	v := value.NewText("same")
	for i := 0; i < 5; i++ {
		m.Insert(v)
	}
	h, _ := m.Get(v)
	if !reflect.DeepEqual(h, interval.History{{Lo: 0, Hi: 4}}) {
		t.Errorf("got %v, want single interval [0,4]", h)
	}
}

// Universal invariant 4: v1, v2, v1 yields two intervals for v1, one for v2.
func TestMachineAlternatingInsertsSplitIntervals(t *testing.T) {
	m := NewMachine()
	v1 := value.NewText("v1")
	v2 := value.NewText("v2")
	m.Insert(v1)
	m.Insert(v2)
	m.Insert(v1)

	h1, _ := m.Get(v1)
	if len(h1) != 2 {
		t.Errorf("v1 history = %v, want 2 intervals", h1)
	}
	h2, _ := m.Get(v2)
	if len(h2) != 1 {
		t.Errorf("v2 history = %v, want 1 interval", h2)
	}
}

// Round trip: get(v) -> values_in(h) contains v.
func TestMachineGetThenValuesInRoundTrips(t *testing.T) {
	m := NewMachine()
	m.Insert(value.NewInt(1))
	m.Insert(value.NewInt(2))
	m.Insert(value.NewInt(1))

	h, ok := m.Get(value.NewInt(1))
	if !ok {
		t.Fatal("expected Int(1) present")
	}
	found := m.ValuesIn(h)
	var has bool
	for _, v := range found {
		if value.Compare(v, value.NewInt(1)) == 0 {
			has = true
		}
	}
	if !has {
		t.Errorf("ValuesIn(Get(v)) should contain v, got %v", found)
	}
}

func TestMachineGetUnseenValue(t *testing.T) {
	m := NewMachine()
	m.Insert(value.NewInt(1))
	if _, ok := m.Get(value.NewInt(999)); ok {
		t.Fatal("unseen value should not be found")
	}
}

func TestMachineGetCopyIsIndependent(t *testing.T) {
	m := NewMachine()
	m.Insert(value.NewInt(1))
	h, _ := m.Get(value.NewInt(1))
	h[0].Hi = 999
	h2, _ := m.Get(value.NewInt(1))
	if h2[0].Hi == 999 {
		t.Fatal("Get should return an independent copy")
	}
}

func TestMachineSelectBy(t *testing.T) {
	m := NewMachine()
	m.Insert(value.NewInt(1))
	m.Insert(value.NewInt(5))
	m.Insert(value.NewInt(10))

	histories := m.SelectBy(value.NewInt(4), predicate.Gt)
	if len(histories) != 2 {
		t.Fatalf("expected 2 histories for > 4, got %d", len(histories))
	}
}

func TestMachineKeyOrderIsDeterministic(t *testing.T) {
	m := NewMachine()
	for _, v := range []value.Value{value.NewInt(5), value.NewInt(1), value.NewInt(3)} {
		m.Insert(v)
	}
	var seen []int64
	for _, v := range m.ValuesIn(interval.History{{Lo: 0, Hi: 2}}) {
		i, _ := v.Int()
		seen = append(seen, i)
	}
	if !reflect.DeepEqual(seen, []int64{1, 3, 5}) {
		t.Errorf("iteration order = %v, want ascending key order [1 3 5]", seen)
	}
}
