package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/booking"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/config"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/controllers"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/finance"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/models"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/repository"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/routes"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/services"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.CommissionRule{},
		&models.CompanySettings{},
		&models.Booking{},
		&models.BookingService{},
		&models.Expense{},
		&models.LedgerEntry{},
	)
}

func main() {
	db := config.DB

	settingsRepo := repository.NewSettingsRepository(db)
	rulesRepo := repository.NewCommissionRuleRepository(db)
	servicesRepo := repository.NewServiceRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	bookingStore := repository.NewBookingStore(db)

	resolver := finance.NewCommissionResolver(rulesRepo, servicesRepo, settingsRepo)
	projector := finance.NewProjector(bookingStore, resolver, settingsRepo)
	aggregator := finance.NewAggregator(ledgerRepo, projector)
	manager := booking.NewManager(bookingStore, ledgerRepo, resolver, settingsRepo)
	notifier := services.NewNotifier(db)

	recurring := services.NewRecurringExpenseService(db)
	recurring.StartScheduler()

	r := routes.SetupRouter(routes.Controllers{
		Rules:    &controllers.CommissionRuleController{Rules: rulesRepo},
		Settings: &controllers.SettingsController{Settings: settingsRepo},
		Bookings: &controllers.BookingController{Manager: manager, Store: bookingStore, Notifier: notifier},
		Payments: &controllers.PaymentController{Manager: manager, Resolver: resolver, Settings: settingsRepo},
		Ledger:   &controllers.LedgerController{Aggregator: aggregator, Ledger: ledgerRepo},
		Expenses: &controllers.ExpenseController{Ledger: ledgerRepo},
		Reports:  &controllers.ReportController{Aggregator: aggregator},
	})
	printRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
