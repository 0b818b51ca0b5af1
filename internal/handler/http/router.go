package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/jget-crm/backoffice/internal/config"
	"github.com/jget-crm/backoffice/internal/handler/http/middleware"
	"github.com/jget-crm/backoffice/internal/pkg/jwt"
)

type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Org        *OrgHandler
	Shift      *ShiftHandler
	Employee   *EmployeeHandler
	Student    *StudentHandler
	Attendance *AttendanceHandler
	Payroll    *PayrollHandler
	Ticket     *TicketHandler
	Lead       *LeadHandler
	Dashboard  *DashboardHandler
}

func NewRouter(cfg *config.Config, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "jget-backoffice"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/auth/me", h.Auth.Me)

			// Managers and admins only
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.ManageOnly)
				r.Post("/", h.User.Create)
				r.Get("/", h.User.List)
				r.Get("/{id}", h.User.GetByID)
				r.Put("/{id}", h.User.Update)
				r.Delete("/{id}", h.User.Delete)
			})

			r.Route("/cities", func(r chi.Router) {
				r.Get("/", h.Org.ListCities)
				r.Get("/{id}", h.Org.GetCity)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", h.Org.CreateCity)
					r.Put("/{id}", h.Org.UpdateCity)
					r.Delete("/{id}", h.Org.DeleteCity)
				})
			})

			r.Route("/branches", func(r chi.Router) {
				r.Get("/", h.Org.ListBranches)
				r.Get("/{id}", h.Org.GetBranch)
				r.Get("/{id}/statistics", h.Org.GetBranchStatistics)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManageOnly)
					r.Post("/", h.Org.CreateBranch)
					r.Put("/{id}", h.Org.UpdateBranch)
					r.Delete("/{id}", h.Org.DeleteBranch)
				})
			})

			r.Route("/positions", func(r chi.Router) {
				r.Get("/", h.Employee.ListPositions)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManageOnly)
					r.Post("/", h.Employee.CreatePosition)
					r.Put("/{id}", h.Employee.UpdatePosition)
					r.Delete("/{id}", h.Employee.DeletePosition)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Post("/", h.Shift.Create)
				r.Get("/", h.Shift.List)
				r.Get("/calendar", h.Shift.Calendar)
				r.Get("/{id}", h.Shift.GetByID)
				r.Put("/{id}", h.Shift.Update)
				r.Delete("/{id}", h.Shift.Delete)

				r.Get("/{id}/employees", h.Shift.ListEmployees)
				r.Post("/{id}/employees", h.Shift.AddEmployee)
				r.Delete("/{id}/employees/{employeeID}", h.Shift.RemoveEmployee)
				r.Get("/{id}/available-employees", h.Shift.ListAvailableEmployees)

				r.Get("/{id}/students", h.Shift.ListStudents)
				r.Post("/{id}/students", h.Shift.AddStudent)
				r.Delete("/{id}/students/{studentID}", h.Shift.RemoveStudent)
				r.Get("/{id}/available-students", h.Shift.ListAvailableStudents)

				r.Get("/{id}/financial-balance", h.Shift.FinancialBalance)

				r.Get("/{id}/squads", h.Shift.ListSquads)
				r.Post("/{id}/squads", h.Shift.CreateSquad)
			})

			r.Route("/squads/{squadID}", func(r chi.Router) {
				r.Put("/", h.Shift.UpdateSquad)
				r.Delete("/", h.Shift.DeleteSquad)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Post("/", h.Employee.Create)
				r.Get("/", h.Employee.List)
				r.Get("/{id}", h.Employee.GetByID)
				r.Put("/{id}", h.Employee.Update)
				r.Patch("/{id}/rate", h.Employee.UpdateRate)
				r.Delete("/{id}", h.Employee.Delete)
			})

			r.Route("/students", func(r chi.Router) {
				r.Post("/", h.Student.Create)
				r.Get("/", h.Student.List)
				r.Get("/{id}", h.Student.GetByID)
				r.Put("/{id}", h.Student.Update)
				r.Delete("/{id}", h.Student.Delete)

				r.Post("/{id}/payments", h.Student.CreatePayment)
				r.Get("/{id}/payments", h.Student.ListPayments)
				r.Post("/{id}/deposits", h.Student.Deposit)
				r.Get("/{id}/balance", h.Student.GetBalance)
				r.Get("/{id}/balance/check", h.Student.CheckBalance)
			})

			r.Route("/payments/{paymentID}", func(r chi.Router) {
				r.Put("/", h.Student.UpdatePayment)
				r.Delete("/", h.Student.DeletePayment)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/toggle", h.Attendance.Toggle)
				r.Get("/{kind}/period", h.Attendance.ListPeriod)
				r.Get("/{kind}/{personID}", h.Attendance.ListPerson)
				r.Get("/{kind}/{personID}/totals", h.Attendance.Totals)
			})

			r.Route("/salaries", func(r chi.Router) {
				r.Post("/", h.Payroll.CreateSalary)
				r.Get("/", h.Payroll.ListSalaries)
				r.Get("/{id}", h.Payroll.GetSalary)
				r.Put("/{id}", h.Payroll.UpdateSalary)
				r.Delete("/{id}", h.Payroll.DeleteSalary)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", h.Payroll.CreateExpense)
				r.Get("/", h.Payroll.ListExpenses)
				r.Put("/{id}", h.Payroll.UpdateExpense)
				r.Delete("/{id}", h.Payroll.DeleteExpense)
			})

			r.Route("/tickets", func(r chi.Router) {
				r.Post("/", h.Ticket.Create)
				r.Get("/", h.Ticket.List)
				r.Get("/my", h.Ticket.ListMine)
				r.Get("/unread-count", h.Ticket.UnreadCount)
				r.Get("/{id}", h.Ticket.GetByID)
				r.Put("/{id}", h.Ticket.Update)
				r.Delete("/{id}", h.Ticket.Delete)
			})

			// Managers and admins only
			r.Route("/leads", func(r chi.Router) {
				r.Use(middleware.ManageOnly)
				r.Post("/", h.Lead.Create)
				r.Get("/", h.Lead.List)
				r.Get("/{id}", h.Lead.GetByID)
				r.Put("/{id}", h.Lead.Update)
				r.Delete("/{id}", h.Lead.Delete)
			})

			r.Get("/dashboard/statistics", h.Dashboard.NetworkStatistics)
		})
	})
	return r
}
