package clipboard

import (
	"errors"
	"testing"
)

func TestWriteEmpty(t *testing.T) {
	if err := Write(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("Write(\"\") = %v, want ErrEmpty", err)
	}
}

func TestWrite(t *testing.T) {
	// Needs a desktop session; only check it doesn't panic.
	if err := Write("dlg.child_window(auto_id=\"okButton\")"); err != nil {
		t.Logf("clipboard unavailable: %v", err)
	}
}
