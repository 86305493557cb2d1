package models

import "testing"

func TestTimetableSlotValidate(t *testing.T) {
	valid := TimetableSlot{
		Username:   "arjun",
		Weekday:    1,
		StartTime:  "09:00",
		EndTime:    "09:55",
		CourseCode: "CS3009",
	}

	tests := []struct {
		name    string
		mutate  func(*TimetableSlot)
		wantErr bool
	}{
		{"valid slot", func(s *TimetableSlot) {}, false},
		{"friday is allowed", func(s *TimetableSlot) { s.Weekday = 5 }, false},
		{"sunday is rejected", func(s *TimetableSlot) { s.Weekday = 0 }, true},
		{"saturday is rejected", func(s *TimetableSlot) { s.Weekday = 6 }, true},
		{"start after end", func(s *TimetableSlot) { s.StartTime = "10:00" }, true},
		{"zero-length slot", func(s *TimetableSlot) { s.EndTime = "09:00" }, true},
		{"unpadded start time", func(s *TimetableSlot) { s.StartTime = "9:00" }, true},
		{"garbage end time", func(s *TimetableSlot) { s.EndTime = "late" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := valid
			tt.mutate(&slot)
			err := slot.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
