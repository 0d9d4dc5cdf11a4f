package tray

import "testing"

func TestTray_Toggle(t *testing.T) {
	tr := New()
	if !tr.IsEnabled() {
		t.Fatal("new tray should start enabled")
	}

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.Toggle()
	tr.Toggle()

	if len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("two toggles should leave the tray enabled")
	}
}

func TestTray_SetEnabledSkipsCallback(t *testing.T) {
	tr := New()
	calls := 0
	tr.OnToggle(func(bool) { calls++ })

	tr.SetEnabled(false)
	if tr.IsEnabled() {
		t.Error("SetEnabled(false) should disable the tray")
	}
	if calls != 0 {
		t.Errorf("toggle callback ran %d times, want 0", calls)
	}

	tr.Toggle()
	if !tr.IsEnabled() || calls != 1 {
		t.Errorf("after Toggle: enabled = %v, calls = %d", tr.IsEnabled(), calls)
	}
}

func TestTray_LastAction(t *testing.T) {
	tr := New()
	if tr.LastAction() != "" {
		t.Errorf("LastAction() = %q, want empty", tr.LastAction())
	}

	tr.SetLastAction("Right Click")
	if tr.LastAction() != "Right Click" {
		t.Errorf("LastAction() = %q", tr.LastAction())
	}
}

func TestTitles(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{toggleTitle(true), titleEnabled},
		{toggleTitle(false), titleDisabled},
		{lastTitle(""), "Last: none"},
		{lastTitle("Scrolling"), "Last: Scrolling"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
