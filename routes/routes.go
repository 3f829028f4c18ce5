package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Punk-Code-Solution/Studio-Style-sub000/config"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/controllers"
	"github.com/Punk-Code-Solution/Studio-Style-sub000/utils"
)

// Controllers carries the stateful controllers the router wires up.
// Stateless handlers (auth, accounts, services) are plain functions.
type Controllers struct {
	Rules    *controllers.CommissionRuleController
	Settings *controllers.SettingsController
	Bookings *controllers.BookingController
	Payments *controllers.PaymentController
	Ledger   *controllers.LedgerController
	Expenses *controllers.ExpenseController
	Reports  *controllers.ReportController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Account routes
		accounts := api.Group("/accounts")
		{
			accounts.POST("", controllers.CreateAccount)
			accounts.GET("", controllers.GetAccounts)
			accounts.GET("/:id", controllers.GetAccount)
			accounts.PUT("/:id", controllers.UpdateAccount)
			accounts.DELETE("/:id", utils.RequireRole("owner"), controllers.DeleteAccount)
		}

		// Service routes
		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		// Commission rule routes
		rules := api.Group("/commission-rules")
		{
			rules.GET("", ctl.Rules.List)
			rules.Use(utils.RequireRole("owner"))
			rules.POST("", ctl.Rules.Create)
			rules.PUT("/:id", ctl.Rules.Update)
			rules.DELETE("/:id", ctl.Rules.Delete)
		}

		// Company settings routes
		settings := api.Group("/settings")
		{
			settings.GET("", ctl.Settings.Get)
			settings.PUT("", utils.RequireRole("owner"), ctl.Settings.Update)
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("", ctl.Bookings.CreateBooking)
			bookings.GET("", ctl.Bookings.GetBookings)
			bookings.GET("/:id", ctl.Bookings.GetBooking)
			bookings.PUT("/:id", ctl.Bookings.UpdateBooking)
			bookings.POST("/:id/complete", ctl.Bookings.CompleteBooking)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("/calculate", ctl.Payments.CalculateSplit)
			payments.POST("/record", ctl.Payments.RecordPayment)
		}

		// Ledger routes
		ledger := api.Group("/ledger")
		{
			ledger.GET("", ctl.Ledger.GetEntries)
			ledger.DELETE("/:id", utils.RequireRole("owner"), ctl.Ledger.DeleteEntry)
		}

		// Expense routes
		expenses := api.Group("/expenses")
		{
			expenses.POST("", ctl.Expenses.CreateExpense)
			expenses.GET("", ctl.Expenses.GetExpenses)
			expenses.GET("/:id", ctl.Expenses.GetExpense)
			expenses.PUT("/:id", ctl.Expenses.UpdateExpense)
			expenses.DELETE("/:id", ctl.Expenses.DeleteExpense)
			expenses.POST("/:id/pay", ctl.Expenses.PayExpense)
		}

		// Report routes
		reports := api.Group("/reports")
		{
			reports.GET("/dre", ctl.Reports.GetDRE)
			reports.GET("/commissions", ctl.Reports.GetCommissions)
		}
	}

	return r
}
