package utils

import (
	"strings"
	"testing"
)

func TestPrefixedID(t *testing.T) {
	id := PrefixedID("L")
	if !strings.HasPrefix(id, "L-") {
		t.Errorf("id = %q, want L- prefix", id)
	}
	if len(id) != len("L-")+NanoidSize {
		t.Errorf("id length = %d", len(id))
	}
	if id == PrefixedID("L") {
		t.Error("two ids collided")
	}
}

func TestStructTagValues(t *testing.T) {
	type row struct {
		Name     string `db:"name"`
		Ignored  string `db:"-"`
		Untagged string
		private  string `db:"private"` //nolint:unused
	}

	got := StructTagValues(row{})
	if len(got) != 1 || got[0] != "name" {
		t.Errorf("StructTagValues = %v, want [name]", got)
	}

	ptr := StructTagValues(&row{})
	if len(ptr) != 1 || ptr[0] != "name" {
		t.Errorf("StructTagValues(ptr) = %v, want [name]", ptr)
	}
}
