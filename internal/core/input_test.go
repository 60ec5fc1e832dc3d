package core

import "testing"

func TestIntentQueueCapacity(t *testing.T) {
	q := NewIntentQueue(2)

	if !q.Push(DirUp) || !q.Push(DirLeft) {
		t.Fatal("first two pushes should succeed")
	}
	if q.Push(DirDown) {
		t.Error("third push should be dropped")
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", q.Len())
	}

	if d := q.Pop(); d != DirUp {
		t.Errorf("Pop() = %v, expected up", d)
	}
	if d := q.Pop(); d != DirLeft {
		t.Errorf("Pop() = %v, expected left", d)
	}
	if d := q.Pop(); d != DirNone {
		t.Errorf("Pop() on empty queue = %v, expected none", d)
	}
}

func TestIntentQueueFlush(t *testing.T) {
	q := NewIntentQueue(0)
	q.Push(DirRight)
	q.Flush()

	if q.Len() != 0 {
		t.Errorf("Len() after Flush = %d", q.Len())
	}
	if q.Push(DirNone) {
		t.Error("DirNone should never be queued")
	}
}

func TestInputFrameDirectionsKeepOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionRight)
	f.Set(ActionConfirm)
	f.Set(ActionUp)

	if len(f.Directions) != 2 || f.Directions[0] != DirRight || f.Directions[1] != DirUp {
		t.Errorf("Directions = %v, expected [right up]", f.Directions)
	}
	if !f.Has(ActionConfirm) {
		t.Error("Has(Confirm) should be true")
	}

	f.Clear()
	if f.Has(ActionUp) || len(f.Directions) != 0 {
		t.Error("Clear should reset actions and directions")
	}
}

func TestDirectionDelta(t *testing.T) {
	tests := []struct {
		d      Direction
		dc, dr int
	}{
		{DirUp, 0, -1},
		{DirDown, 0, 1},
		{DirLeft, -1, 0},
		{DirRight, 1, 0},
		{DirNone, 0, 0},
	}

	for _, tc := range tests {
		dc, dr := tc.d.Delta()
		if dc != tc.dc || dr != tc.dr {
			t.Errorf("%v.Delta() = (%d, %d), expected (%d, %d)", tc.d, dc, dr, tc.dc, tc.dr)
		}
		if tc.d != DirNone {
			if p, ok := ParseDirection(tc.d.String()); !ok || p != tc.d {
				t.Errorf("ParseDirection(%q) = %v, %v", tc.d.String(), p, ok)
			}
		}
	}
}
