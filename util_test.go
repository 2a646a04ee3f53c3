package presence

import (
	"testing"
)

func TestNewID(t *testing.T) {
	// UUID4 strings are always 36 characters
	id := NewID()
	if len(id) != 36 {
		t.Error("NewID returned a non-UUID string:", id)
	}
	// Make sure it creates new ones each time
	id2 := NewID()
	if id == id2 {
		t.Error("NewID returning duplicates")
	}
}

func TestHandleMinorError(t *testing.T) {
	// Simply must not exit or panic
	HandleMinorError(nil)
}
