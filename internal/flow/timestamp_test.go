package flow

import "testing"

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"0:00:00", 0, true},
		{"00:00:30", 30, true},
		{"0:01:30", 90, true},
		{"1:00:00", 3600, true},
		{"25:00:00", 90000, true},
		{"99:59:59", 99*3600 + 59*60 + 59, true},
		{" 0:10:00 ", 600, true},
		{"25:61:00", 0, false},
		{"0:00:61", 0, false},
		{"100:00:00", 0, false},
		{"10:00", 0, false},
		{"1:2:3:4", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseTimestamp(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}
