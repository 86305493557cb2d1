package schedule

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Clock
		wantErr bool
	}{
		{"morning time", "08:00", Clock{8, 0}, false},
		{"midnight", "00:00", Clock{0, 0}, false},
		{"end of day", "23:59", Clock{23, 59}, false},
		{"missing leading zero", "8:00", Clock{}, true},
		{"hour out of range", "24:00", Clock{}, true},
		{"minute out of range", "10:60", Clock{}, true},
		{"not a time", "banana", Clock{}, true},
		{"empty string", "", Clock{}, true},
		{"trailing garbage in minute", "08:5x", Clock{}, true},
		{"leading space", " 8:30", Clock{}, true},
		{"trailing space", "08:0 ", Clock{}, true},
		{"letter in hour", "0a:30", Clock{}, true},
		{"negative minute", "08:-5", Clock{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClockRoundTrip(t *testing.T) {
	c := MustParseClock("09:05")
	if c.String() != "09:05" {
		t.Errorf("String() = %q, want %q", c.String(), "09:05")
	}
}

func TestClockOn(t *testing.T) {
	ref := time.Date(2026, 1, 5, 22, 41, 17, 500, time.UTC)
	got := MustParseClock("08:00").On(ref)
	want := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("On() = %v, want %v", got, want)
	}
}
