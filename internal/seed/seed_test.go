package seed

import (
	"path/filepath"
	"testing"

	"classtrack/internal/models"
	"classtrack/internal/schedule"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "seed.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Course{}, &models.TimetableSlot{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestApply(t *testing.T) {
	db := testDB(t)

	applied, err := Apply(db, "arjun")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !applied {
		t.Fatal("first Apply reported no-op")
	}

	var courseCount, slotCount int64
	db.Model(&models.Course{}).Where("username = ?", "arjun").Count(&courseCount)
	db.Model(&models.TimetableSlot{}).Where("username = ?", "arjun").Count(&slotCount)
	if courseCount != int64(len(defaultCourses)) {
		t.Errorf("course count = %d, want %d", courseCount, len(defaultCourses))
	}
	if slotCount != int64(len(defaultSlots)) {
		t.Errorf("slot count = %d, want %d", slotCount, len(defaultSlots))
	}
}

func TestApplyIsInitializeOnce(t *testing.T) {
	db := testDB(t)

	if _, err := Apply(db, "arjun"); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	applied, err := Apply(db, "arjun")
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if applied {
		t.Error("second Apply re-seeded")
	}

	var count int64
	db.Model(&models.Course{}).Where("username = ?", "arjun").Count(&count)
	if count != int64(len(defaultCourses)) {
		t.Errorf("course count after double Apply = %d, want %d", count, len(defaultCourses))
	}
}

func TestApplyIsPerOwner(t *testing.T) {
	db := testDB(t)

	if _, err := Apply(db, "arjun"); err != nil {
		t.Fatalf("Apply(arjun): %v", err)
	}
	applied, err := Apply(db, "priya")
	if err != nil {
		t.Fatalf("Apply(priya): %v", err)
	}
	if !applied {
		t.Error("seeding one owner blocked another")
	}
}

func TestDefaultTimetableIsWellFormed(t *testing.T) {
	catalog := make(map[string]bool)
	for _, c := range DefaultCourses("arjun") {
		catalog[c.Code] = true
	}

	for _, slot := range DefaultTimetable("arjun") {
		if err := slot.Validate(); err != nil {
			t.Errorf("slot %s %s: %v", slot.CourseCode, slot.StartTime, err)
		}
		if !catalog[slot.CourseCode] {
			t.Errorf("slot references unknown course %s", slot.CourseCode)
		}
		if _, err := schedule.ParseClock(slot.StartTime); err != nil {
			t.Errorf("slot %s start time: %v", slot.CourseCode, err)
		}
		if _, err := schedule.ParseClock(slot.EndTime); err != nil {
			t.Errorf("slot %s end time: %v", slot.CourseCode, err)
		}
	}
}
