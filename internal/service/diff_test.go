package service

import (
	"testing"

	"coscribe/internal/domain/models"
)

func ops(texts ...string) []models.Op {
	out := make([]models.Op, len(texts))
	for i, s := range texts {
		out[i] = models.Op{Insert: s}
	}
	return out
}

func TestDiffOpsIdenticalListsAreEmpty(t *testing.T) {
	tests := []struct {
		name string
		list []models.Op
	}{
		{"empty", nil},
		{"single", ops("hello")},
		{"several", ops("hello", "world", "\n")},
		{"with attributes", []models.Op{
			{Insert: "bold", Attributes: map[string]any{"bold": true}},
			{Insert: "\n"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diffOps(tt.list, tt.list); len(got) != 0 {
				t.Errorf("diffOps(x, x) = %d changes, want 0", len(got))
			}
		})
	}
}

func TestDiffOpsAddedAndRemoved(t *testing.T) {
	tests := []struct {
		name   string
		before []models.Op
		after  []models.Op
		want   []models.ChangeRecord
	}{
		{
			name:   "append at end",
			before: ops("a"),
			after:  ops("a", "b"),
			want: []models.ChangeRecord{
				{Type: models.ChangeAdded, Index: 1},
			},
		},
		{
			name:   "insert at front",
			before: ops("b"),
			after:  ops("a", "b"),
			want: []models.ChangeRecord{
				{Type: models.ChangeAdded, Index: 0},
			},
		},
		{
			name:   "remove from middle",
			before: ops("a", "b", "c"),
			after:  ops("a", "c"),
			want: []models.ChangeRecord{
				{Type: models.ChangeRemoved, Index: 1},
			},
		},
		{
			name:   "everything removed",
			before: ops("a", "b"),
			after:  nil,
			want: []models.ChangeRecord{
				{Type: models.ChangeRemoved, Index: 0},
				{Type: models.ChangeRemoved, Index: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diffOps(tt.before, tt.after)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d changes, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Type != tt.want[i].Type || got[i].Index != tt.want[i].Index {
					t.Errorf("change %d = {%s %d}, want {%s %d}",
						i, got[i].Type, got[i].Index, tt.want[i].Type, tt.want[i].Index)
				}
			}
		})
	}
}

func TestDiffOpsReplacementCollapsesToChanged(t *testing.T) {
	before := ops("a", "b", "c")
	after := ops("a", "B", "c")

	got := diffOps(before, after)
	if len(got) != 1 {
		t.Fatalf("got %d changes, want 1: %+v", len(got), got)
	}
	c := got[0]
	if c.Type != models.ChangeChanged || c.Index != 1 {
		t.Fatalf("change = {%s %d}, want {changed 1}", c.Type, c.Index)
	}
	if c.Before == nil || c.Before.Insert != "b" {
		t.Errorf("Before = %+v, want insert %q", c.Before, "b")
	}
	if c.After == nil || c.After.Insert != "B" {
		t.Errorf("After = %+v, want insert %q", c.After, "B")
	}
}

func TestDiffOpsAttributeOnlyChange(t *testing.T) {
	before := []models.Op{{Insert: "word"}}
	after := []models.Op{{Insert: "word", Attributes: map[string]any{"italic": true}}}

	got := diffOps(before, after)
	if len(got) != 1 || got[0].Type != models.ChangeChanged {
		t.Fatalf("formatting change should diff as changed, got %+v", got)
	}
}
