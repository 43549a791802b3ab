package tui

import "testing"

func TestAddReturnsExistingBreakpointAtSameAddress(t *testing.T) {
	bm := NewBreakpointManager()
	first := bm.Add(0x100)
	second := bm.Add(0x100)

	if first.ID != second.ID {
		t.Errorf("Add at the same address returned different breakpoints: %d vs %d", first.ID, second.ID)
	}
}

func TestDeleteRemovesBreakpoint(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.Add(0x200)

	if err := bm.Delete(bp.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if bm.Has(0x200) {
		t.Error("breakpoint still present after Delete")
	}
}

func TestDeleteUnknownIDErrors(t *testing.T) {
	bm := NewBreakpointManager()
	if err := bm.Delete(999); err == nil {
		t.Error("expected an error deleting an unknown breakpoint id")
	}
}

func TestListIsSortedByAddress(t *testing.T) {
	bm := NewBreakpointManager()
	bm.Add(0x300)
	bm.Add(0x100)
	bm.Add(0x200)

	list := bm.List()
	if len(list) != 3 {
		t.Fatalf("List() returned %d breakpoints, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Address > list[i].Address {
			t.Errorf("List() not sorted: %#x before %#x", list[i-1].Address, list[i].Address)
		}
	}
}
