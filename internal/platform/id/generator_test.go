package id

import "testing"

func TestUUIDGenerator(t *testing.T) {
	g := NewUUIDGenerator()
	a, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	b, _ := g.NewID()
	if a == b {
		t.Fatalf("expected distinct ids")
	}
	if !Valid(a) {
		t.Fatalf("expected %q to be a valid uuid", a)
	}
	if Valid("not-a-uuid") {
		t.Fatalf("expected invalid uuid to be rejected")
	}
}

func TestSequenceGenerator(t *testing.T) {
	g := &SequenceGenerator{Prefix: "pr-"}
	first, _ := g.NewID()
	second, _ := g.NewID()
	if first != "pr-1" || second != "pr-2" {
		t.Fatalf("unexpected ids: %s %s", first, second)
	}
}
