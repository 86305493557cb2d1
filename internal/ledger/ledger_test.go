package ledger

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"classtrack/internal/models"
	"classtrack/internal/schedule"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ledger.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.ReminderRecord{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return New(db)
}

func reminderAt(firesAt time.Time) *models.ReminderRecord {
	return &models.ReminderRecord{
		Username:   "arjun",
		CourseCode: "CS3065",
		CourseName: "IoT Prototyping Laboratory",
		StartTime:  "08:00",
		Location:   "(# HW LAB)",
		FiresAt:    firesAt,
	}
}

func TestScheduleIsIdempotent(t *testing.T) {
	l := testLedger(t)
	firesAt := time.Date(2026, 1, 5, 7, 45, 0, 0, time.UTC)

	first, created, err := l.Schedule(reminderAt(firesAt))
	if err != nil {
		t.Fatalf("first Schedule: %v", err)
	}
	if !created {
		t.Fatal("first Schedule did not create")
	}

	second, created, err := l.Schedule(reminderAt(firesAt))
	if err != nil {
		t.Fatalf("second Schedule: %v", err)
	}
	if created {
		t.Error("second Schedule claimed to create")
	}
	if second.ID != first.ID {
		t.Errorf("second Schedule returned ID %d, want existing ID %d", second.ID, first.ID)
	}

	var count int64
	if err := l.db.Model(&models.ReminderRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}
}

func TestScheduleCollapsesSubMinuteFireTimes(t *testing.T) {
	l := testLedger(t)

	base := time.Date(2026, 1, 5, 7, 45, 0, 0, time.UTC)
	if _, created, err := l.Schedule(reminderAt(base)); err != nil || !created {
		t.Fatalf("Schedule(base) = created %v, err %v", created, err)
	}

	// Same minute, different seconds: dedup key must match
	skewed := base.Add(30 * time.Second)
	_, created, err := l.Schedule(reminderAt(skewed))
	if err != nil {
		t.Fatalf("Schedule(skewed): %v", err)
	}
	if created {
		t.Error("fire times in the same minute created separate rows")
	}
}

func TestScheduleDistinctKeysCoexist(t *testing.T) {
	l := testLedger(t)
	firesAt := time.Date(2026, 1, 5, 7, 45, 0, 0, time.UTC)

	if _, created, err := l.Schedule(reminderAt(firesAt)); err != nil || !created {
		t.Fatalf("Schedule = created %v, err %v", created, err)
	}

	other := reminderAt(firesAt)
	other.CourseCode = "ER4231"
	if _, created, err := l.Schedule(other); err != nil || !created {
		t.Errorf("different course at same fire time should create, got created %v, err %v", created, err)
	}

	later := reminderAt(firesAt.Add(3 * time.Hour))
	if _, created, err := l.Schedule(later); err != nil || !created {
		t.Errorf("same course at a later fire time should create, got created %v, err %v", created, err)
	}
}

func TestDueUnsent(t *testing.T) {
	l := testLedger(t)
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

	early := reminderAt(now.Add(-2 * time.Hour))
	late := reminderAt(now.Add(-10 * time.Minute))
	late.CourseCode = "ER4231"
	future := reminderAt(now.Add(time.Hour))
	future.CourseCode = "CS3011"
	delivered := reminderAt(now.Add(-3 * time.Hour))
	delivered.CourseCode = "CS3009"

	for _, r := range []*models.ReminderRecord{early, late, future, delivered} {
		if _, _, err := l.Schedule(r); err != nil {
			t.Fatalf("Schedule: %v", err)
		}
	}
	if err := l.MarkSent(delivered.ID); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}

	due, err := l.DueUnsent(now)
	if err != nil {
		t.Fatalf("DueUnsent: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("got %d due reminders, want 2", len(due))
	}
	if due[0].CourseCode != "CS3065" || due[1].CourseCode != "ER4231" {
		t.Errorf("due reminders out of order: %s then %s", due[0].CourseCode, due[1].CourseCode)
	}
}

func TestDueUnsentForScopesToOwner(t *testing.T) {
	l := testLedger(t)
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

	mine := reminderAt(now.Add(-5 * time.Minute))
	theirs := reminderAt(now.Add(-5 * time.Minute))
	theirs.Username = "someone-else"

	for _, r := range []*models.ReminderRecord{mine, theirs} {
		if _, _, err := l.Schedule(r); err != nil {
			t.Fatalf("Schedule: %v", err)
		}
	}

	due, err := l.DueUnsentFor("arjun", now)
	if err != nil {
		t.Fatalf("DueUnsentFor: %v", err)
	}
	if len(due) != 1 || due[0].Username != "arjun" {
		t.Errorf("expected only arjun's reminder, got %+v", due)
	}
}

func TestMarkSent(t *testing.T) {
	l := testLedger(t)
	firesAt := time.Date(2026, 1, 5, 7, 45, 0, 0, time.UTC)

	stored, _, err := l.Schedule(reminderAt(firesAt))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	if err := l.MarkSent(stored.ID); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}

	due, err := l.DueUnsent(firesAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("DueUnsent: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("sent reminder still reported due: %+v", due)
	}

	// Marking again is harmless
	if err := l.MarkSent(stored.ID); err != nil {
		t.Errorf("second MarkSent: %v", err)
	}
}

func TestMarkSentUnknownID(t *testing.T) {
	l := testLedger(t)
	if err := l.MarkSent(9999); err == nil {
		t.Error("expected error for unknown reminder ID")
	}
}

func TestRecordAttemptAccumulates(t *testing.T) {
	l := testLedger(t)
	firesAt := time.Date(2026, 1, 5, 7, 45, 0, 0, time.UTC)

	stored, _, err := l.Schedule(reminderAt(firesAt))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	attempts := []models.DeliveryAttempt{
		{At: firesAt, Channel: "push", Success: false, Error: "registration-token-not-registered"},
		{At: firesAt.Add(30 * time.Second), Channel: "push", Success: true},
	}
	for _, a := range attempts {
		if err := l.RecordAttempt(stored.ID, a); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}

	var record models.ReminderRecord
	if err := l.db.First(&record, stored.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	var logged []models.DeliveryAttempt
	if err := json.Unmarshal(record.DeliveryLog, &logged); err != nil {
		t.Fatalf("decode delivery log: %v", err)
	}
	if len(logged) != 2 {
		t.Fatalf("got %d logged attempts, want 2", len(logged))
	}
	if logged[0].Success || !logged[1].Success {
		t.Errorf("attempt outcomes lost: %+v", logged)
	}
	if !record.Sent {
		// RecordAttempt never flips sent; that is MarkSent's job
		t.Error("RecordAttempt changed sent")
	}
}

// The full Monday morning flow: plan at 07:30, nothing due until 07:45,
// deliver, and the ledger refuses to resurface the reminder.
func TestPlanScheduleDeliverFlow(t *testing.T) {
	l := testLedger(t)

	slots := []models.TimetableSlot{
		{Username: "arjun", Weekday: 1, StartTime: "08:00", EndTime: "10:55", CourseCode: "CS3065", Location: "(# HW LAB)"},
	}
	catalog := map[string]models.Course{
		"CS3065": {Code: "CS3065", Name: "IoT Prototyping Laboratory"},
	}

	planned := time.Date(2026, 1, 5, 7, 30, 0, 0, time.UTC)
	plans, err := schedule.PlanReminders(slots, catalog, planned)
	if err != nil {
		t.Fatalf("PlanReminders: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}
	if _, created, err := l.Schedule(&plans[0]); err != nil || !created {
		t.Fatalf("Schedule = created %v, err %v", created, err)
	}

	// One minute early: nothing due yet
	due, err := l.DueUnsent(time.Date(2026, 1, 5, 7, 44, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DueUnsent: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("reminder surfaced before its fire time: %+v", due)
	}

	// At 07:45 it fires
	due, err = l.DueUnsent(time.Date(2026, 1, 5, 7, 45, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DueUnsent: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("got %d due reminders at fire time, want 1", len(due))
	}
	if err := l.MarkSent(due[0].ID); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}

	// A later planner tick re-plans the same slot; the ledger absorbs it
	// and the delivered reminder stays delivered
	replans, err := schedule.PlanReminders(slots, catalog, planned.Add(time.Minute))
	if err != nil {
		t.Fatalf("re-plan: %v", err)
	}
	if _, created, err := l.Schedule(&replans[0]); err != nil || created {
		t.Fatalf("re-plan Schedule = created %v, err %v", created, err)
	}

	due, err = l.DueUnsent(time.Date(2026, 1, 5, 7, 50, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DueUnsent: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("delivered reminder resurfaced: %+v", due)
	}
}
