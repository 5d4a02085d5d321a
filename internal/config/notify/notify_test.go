package notify

import (
	"errors"
	"testing"
)

func TestNotifyPathMatching(t *testing.T) {
	n := New()
	var all, snap, distance, view []string
	n.Subscribe(func(c Change) { all = append(all, c.Path) })
	n.SubscribePath("snap", func(c Change) { snap = append(snap, c.Path) })
	n.SubscribePath("snap.distance", func(c Change) { distance = append(distance, c.Path) })
	n.SubscribePath("view", func(c Change) { view = append(view, c.Path) })

	n.NotifyAll([]Change{
		{Path: "snap.distance", Type: ChangeSet},
		{Path: "snap.types", Type: ChangeSet},
		{Path: "snapshot.count", Type: ChangeSet},
	})

	if len(all) != 3 {
		t.Errorf("all = %v", all)
	}
	if len(snap) != 2 || snap[0] != "snap.distance" || snap[1] != "snap.types" {
		t.Errorf("snap = %v", snap)
	}
	if len(distance) != 1 {
		t.Errorf("distance = %v", distance)
	}
	if len(view) != 0 {
		t.Errorf("view = %v", view)
	}
}

func TestReloadAndErrorReachEveryone(t *testing.T) {
	n := New()
	var got []Change
	n.SubscribePath("view.scale", func(c Change) { got = append(got, c) })

	failure := errors.New("bad file")
	n.NotifyReload("settings.toml")
	n.NotifyError("settings.toml", failure)

	if len(got) != 2 {
		t.Fatalf("got %d changes, want 2", len(got))
	}
	if got[0].Type != ChangeReload || got[0].Source != "settings.toml" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Type != ChangeError || !errors.Is(got[1].Err, failure) {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestDeliveryOrder(t *testing.T) {
	n := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		n.Subscribe(func(Change) { order = append(order, i) })
	}
	n.Notify(Change{Path: "snap.distance"})
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	n := New()
	calls := 0
	sub := n.Subscribe(func(Change) { calls++ })
	if n.Len() != 1 {
		t.Fatalf("Len() = %d", n.Len())
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	n.Notify(Change{Path: "snap.distance"})
	if calls != 0 || n.Len() != 0 {
		t.Errorf("calls = %d, Len() = %d", calls, n.Len())
	}
}

func TestObserverMaySubscribe(t *testing.T) {
	n := New()
	n.Subscribe(func(Change) {
		n.Subscribe(func(Change) {})
	})
	n.Notify(Change{Path: "snap.distance"})
	if n.Len() != 2 {
		t.Errorf("Len() = %d, want 2", n.Len())
	}
}

func TestClose(t *testing.T) {
	n := New()
	calls := 0
	n.Subscribe(func(Change) { calls++ })
	n.Close()
	n.Close()
	n.NotifyReload("x")
	if calls != 0 {
		t.Errorf("observer called after Close")
	}
}

func TestIsParentPath(t *testing.T) {
	tests := []struct {
		parent, child string
		want          bool
	}{
		{"snap", "snap.distance", true},
		{"snap", "snap", false},
		{"snap", "snapshot", false},
		{"snap.distance", "snap", false},
		{"visual", "visual.marker.size", true},
	}
	for _, tt := range tests {
		if got := isParentPath(tt.parent, tt.child); got != tt.want {
			t.Errorf("isParentPath(%q, %q) = %v, want %v", tt.parent, tt.child, got, tt.want)
		}
	}
}

func TestChangeTypeString(t *testing.T) {
	tests := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeSet, "set"},
		{ChangeReload, "reload"},
		{ChangeError, "error"},
		{ChangeType(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
