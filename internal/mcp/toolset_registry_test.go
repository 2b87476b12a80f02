package mcp

import "testing"

type stubToolset struct{ id string }

func (s *stubToolset) ID() string                    { return s.id }
func (s *stubToolset) Version() string               { return "test" }
func (s *stubToolset) Init(ctx ToolsetContext) error { return nil }
func (s *stubToolset) Register(reg Registry) error   { return nil }

func TestToolsetRegistry(t *testing.T) {
	if err := RegisterToolset("", func() Toolset { return &stubToolset{} }); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if err := RegisterToolset("stub-a", nil); err == nil {
		t.Fatalf("expected error for nil factory")
	}
	if err := RegisterToolset("stub-a", func() Toolset { return &stubToolset{id: "stub-a"} }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RegisterToolset("stub-a", func() Toolset { return &stubToolset{id: "stub-a"} }); err == nil {
		t.Fatalf("expected duplicate error")
	}
	factory, ok := ToolsetFactoryFor("stub-a")
	if !ok {
		t.Fatalf("expected factory")
	}
	if got := factory().ID(); got != "stub-a" {
		t.Fatalf("unexpected toolset id: %s", got)
	}
	found := false
	for _, id := range RegisteredToolsets() {
		if id == "stub-a" {
			found = true
		}
	}
	if !found {
		t.Fatalf("stub-a missing from registered toolsets")
	}
}
