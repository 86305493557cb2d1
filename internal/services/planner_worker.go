package services

import (
	"log"
	"time"

	"classtrack/internal/database"
	"classtrack/internal/ledger"
	"classtrack/internal/models"
	"classtrack/internal/schedule"

	"gorm.io/gorm"
)

// PlannerWorker turns each owner's timetable into ledger entries on a timer.
// Scheduling used to hang off UI refreshes; running it here means reminders
// exist whether or not anyone has the app open, and redundant runs are
// harmless because the ledger dedups.
type PlannerWorker struct {
	db       *gorm.DB
	ledger   *ledger.Ledger
	interval time.Duration
}

func NewPlannerWorker(l *ledger.Ledger) *PlannerWorker {
	return &PlannerWorker{
		db:       database.GetDB(),
		ledger:   l,
		interval: time.Minute,
	}
}

func (w *PlannerWorker) Start() {
	go w.run()
}

func (w *PlannerWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Plan immediately on startup so a restart mid-morning doesn't wait a tick
	w.planAll(time.Now())

	for range ticker.C {
		w.planAll(time.Now())
	}
}

// planAll plans reminders for every account's remaining classes today
func (w *PlannerWorker) planAll(now time.Time) {
	weekday, ok := schedule.CurrentWorkingDay(now)
	if !ok {
		return // weekend, nothing to plan
	}

	var accounts []models.Account
	if err := w.db.Find(&accounts).Error; err != nil {
		log.Printf("Error: Failed to load accounts for planning: %v", err)
		return
	}

	for _, account := range accounts {
		if err := w.planFor(account.Username, weekday, now); err != nil {
			log.Printf("Error: Failed to plan reminders for %s: %v", account.Username, err)
		}
	}
}

func (w *PlannerWorker) planFor(username string, weekday time.Weekday, now time.Time) error {
	var slots []models.TimetableSlot
	if err := w.db.Where("username = ? AND weekday = ?", username, int(weekday)).
		Order("start_time ASC").Find(&slots).Error; err != nil {
		return err
	}
	if len(slots) == 0 {
		return nil
	}

	var courses []models.Course
	if err := w.db.Where("username = ?", username).Find(&courses).Error; err != nil {
		return err
	}
	catalog := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		catalog[course.Code] = course
	}

	plans, err := schedule.PlanReminders(slots, catalog, now)
	if err != nil {
		return err
	}

	for i := range plans {
		record, created, err := w.ledger.Schedule(&plans[i])
		if err != nil {
			log.Printf("Error: Failed to schedule reminder for %s/%s: %v", username, plans[i].CourseCode, err)
			continue
		}
		if created {
			log.Printf("Scheduled reminder %d for %s: %s at %s", record.ID, username, record.CourseName, record.FiresAt.Format("15:04"))
		}
	}
	return nil
}
