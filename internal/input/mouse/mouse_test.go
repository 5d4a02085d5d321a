package mouse

import "testing"

func TestButtonString(t *testing.T) {
	tests := []struct {
		button Button
		want   string
	}{
		{ButtonLeft, "left"},
		{ButtonMiddle, "middle"},
		{ButtonRight, "right"},
		{ButtonNone, "none"},
	}

	for _, tt := range tests {
		if got := tt.button.String(); got != tt.want {
			t.Errorf("Button(%d).String() = %q, want %q", tt.button, got, tt.want)
		}
	}
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name    string
		ev      Event
		primary bool
		str     string
	}{
		{"move", Move(1, 2), false, "move (1,2)"},
		{"press left", Press(3, 4, ButtonLeft), true, "press left (3,4)"},
		{"press right", Press(3, 4, ButtonRight), false, "press right (3,4)"},
		{"release left", Release(5, 6, ButtonLeft), true, "release left (5,6)"},
		{"wheel", Wheel(7, 8, -1), false, "wheel -1 (7,8)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.IsPrimary(); got != tt.primary {
				t.Errorf("IsPrimary() = %v, want %v", got, tt.primary)
			}
			if got := tt.ev.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}
