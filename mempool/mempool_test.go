package mempool

import "testing"

func TestAddWiresParentChildEdges(t *testing.T) {
	m := New()
	if err := m.Add("P", 1000, 400, nil); err != nil {
		t.Fatalf("Add(P): %v", err)
	}
	if err := m.Add("C", 80000, 300, []string{"P"}); err != nil {
		t.Fatalf("Add(C): %v", err)
	}

	parent, _ := m.Lookup("P")
	if _, ok := parent.Children["C"]; !ok {
		t.Fatal("P should list C as a child")
	}
	child, _ := m.Lookup("C")
	if _, ok := child.Parents["P"]; !ok {
		t.Fatal("C should list P as a parent")
	}
}

func TestAddRejectsUnknownParent(t *testing.T) {
	m := New()
	if err := m.Add("C", 1, 1, []string{"ghost"}); err == nil {
		t.Fatal("expected an error for a parent that does not exist")
	}
}

func TestRemoveRewiresNeighbors(t *testing.T) {
	m := New()
	_ = m.Add("P", 1000, 400, nil)
	_ = m.Add("C", 80000, 300, []string{"P"})

	m.Remove("P")

	if _, ok := m.Lookup("P"); ok {
		t.Fatal("P should be gone after Remove")
	}
	child, ok := m.Lookup("C")
	if !ok {
		t.Fatal("C should survive removing its parent")
	}
	if _, ok := child.Parents["P"]; ok {
		t.Fatal("C must no longer list P as a parent")
	}
}

func TestStatsAreAggregated(t *testing.T) {
	m := New()
	_ = m.Add("A", 10, 100, nil)
	_ = m.Add("B", 20, 200, nil)

	count, fee, size := m.Stats()
	if count != 2 || fee != 30 || size != 300 {
		t.Fatalf("Stats() = (%d, %d, %d), want (2, 30, 300)", count, fee, size)
	}
}
