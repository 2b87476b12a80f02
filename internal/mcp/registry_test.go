package mcp

import (
	"testing"

	"infracopilot/internal/config"
)

func TestRegistryAddAndGet(t *testing.T) {
	reg := NewRegistry(nil)
	spec := ToolSpec{Name: "aws.s3.list_buckets", Description: "list buckets", Safety: SafetyReadOnly}
	if err := reg.Add(spec); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, ok := reg.Get("aws.s3.list_buckets")
	if !ok || got.Description != "list buckets" {
		t.Fatalf("unexpected spec: %#v", got)
	}
	if err := reg.Add(ToolSpec{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestRegistryListSorted(t *testing.T) {
	reg := NewRegistry(nil)
	for _, name := range []string{"aws.s3.list_buckets", "aws.iam.list_users", "aws.ecs.list_clusters"} {
		if err := reg.Add(ToolSpec{Name: name, Safety: SafetyReadOnly}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	infos := reg.List()
	if len(infos) != 3 {
		t.Fatalf("unexpected count: %d", len(infos))
	}
	if infos[0].Name != "aws.ecs.list_clusters" || infos[2].Name != "aws.s3.list_buckets" {
		t.Fatalf("expected sorted names: %#v", infos)
	}
	names := reg.Names()
	if len(names) != 3 || names[1] != "aws.iam.list_users" {
		t.Fatalf("unexpected names: %#v", names)
	}
}

func TestRegistryReadOnlyGate(t *testing.T) {
	cfg := config.Config{ReadOnly: true}
	reg := NewRegistry(&cfg)
	if err := reg.Add(ToolSpec{Name: "aws.iam.delete_role", Safety: SafetyDestructive}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, ok := reg.Get("aws.iam.delete_role"); ok {
		t.Fatalf("destructive tool should be dropped in read-only mode")
	}
	if err := reg.Add(ToolSpec{Name: "aws.iam.list_users", Safety: SafetyReadOnly}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, ok := reg.Get("aws.iam.list_users"); !ok {
		t.Fatalf("read-only tool should register")
	}
}

func TestRegistryDestructiveAllowlist(t *testing.T) {
	cfg := config.Config{
		DisableDestructive: true,
		Safety:             config.SafetyConfig{AllowDestructiveTools: []string{"aws.iam.delete_role"}},
	}
	reg := NewRegistry(&cfg)
	if err := reg.Add(ToolSpec{Name: "aws.iam.delete_role", Safety: SafetyDestructive}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, ok := reg.Get("aws.iam.delete_role"); !ok {
		t.Fatalf("allowlisted destructive tool should register")
	}
	if err := reg.Add(ToolSpec{Name: "aws.iam.delete_policy", Safety: SafetyDestructive}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, ok := reg.Get("aws.iam.delete_policy"); ok {
		t.Fatalf("non-allowlisted destructive tool should be dropped")
	}
}
