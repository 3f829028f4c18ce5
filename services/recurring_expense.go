// services/recurring_expense.go
package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// RecurringExpenseService materializes recurring expenses once per month so
// expense reporting stays populated without manual re-entry.
type RecurringExpenseService struct {
	db *gorm.DB
}

func NewRecurringExpenseService(db *gorm.DB) *RecurringExpenseService {
	return &RecurringExpenseService{db: db}
}

func (s *RecurringExpenseService) StartScheduler() {
	c := cron.New()

	// Run daily at 6 AM; MaterializeDueExpenses is idempotent per month
	c.AddFunc("0 6 * * *", func() {
		s.MaterializeDueExpenses(time.Now())
	})

	c.Start()
	log.Println("Recurring expense scheduler started")
}

// MaterializeDueExpenses copies every recurring expense whose recurrence
// day has arrived into the current month, unpaid, unless a copy for this
// month already exists.
func (s *RecurringExpenseService) MaterializeDueExpenses(now time.Time) {
	var templates []models.Expense
	if err := s.db.Where("recurrence_day IS NOT NULL").Find(&templates).Error; err != nil {
		log.Printf("Failed to fetch recurring expenses: %v", err)
		return
	}

	monthStart := utils.BeginningOfMonth(now)
	created := 0
	for _, tpl := range templates {
		if *tpl.RecurrenceDay > now.Day() {
			continue
		}
		dueDate := time.Date(now.Year(), now.Month(), *tpl.RecurrenceDay, 0, 0, 0, 0, now.Location())

		// Skip when this month's copy already exists
		var count int64
		err := s.db.Model(&models.Expense{}).
			Where("category = ? AND type = ? AND due_date >= ? AND recurrence_day IS NULL",
				tpl.Category, tpl.Type, monthStart).
			Count(&count).Error
		if err != nil {
			log.Printf("Failed to check materialized expense for %q: %v", tpl.Category, err)
			continue
		}
		if count > 0 {
			continue
		}

		copy := models.Expense{
			Type:        tpl.Type,
			Category:    tpl.Category,
			AmountCents: tpl.AmountCents,
			Paid:        false,
			DueDate:     dueDate,
			Notes:       tpl.Notes,
		}
		if err := s.db.Create(&copy).Error; err != nil {
			log.Printf("Failed to materialize expense for %q: %v", tpl.Category, err)
			continue
		}
		created++
	}

	if created > 0 {
		log.Printf("Materialized %d recurring expenses", created)
	}
}
