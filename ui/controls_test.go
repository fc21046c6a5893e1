package ui

import "testing"

func TestControlActionsAny(t *testing.T) {
	if (ControlActions{}).Any() {
		t.Error("empty actions should report nothing pressed")
	}
	if !(ControlActions{Snapshot: true}).Any() {
		t.Error("snapshot press should be reported")
	}
}

func TestControlStripContains(t *testing.T) {
	c := NewControlStrip()
	if c.Contains(800, 600, 100, 590) {
		t.Error("hidden strip should not capture clicks")
	}

	c.Toggle()
	if !c.Contains(800, 600, 100, 590) {
		t.Error("click near the bottom should land on the visible strip")
	}
	if c.Contains(800, 600, 100, 10) {
		t.Error("click near the top should pass through to the grid")
	}
}
