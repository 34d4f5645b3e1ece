package interfaces

import (
	"errors"
	"testing"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		fields []Field
		want   string
	}{
		{"no fields", "plain", nil, "plain"},
		{
			"mixed values",
			"running",
			[]Field{F("step", 3), F("cmd", "make -j4"), F("err", errors.New("boom"))},
			`running step=3 cmd="make -j4" err=boom`,
		},
		{"empty value quoted", "bin dir", []Field{F("dir", "")}, `bin dir dir=""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Line(tt.msg, tt.fields); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}
