package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/jget-crm/backoffice/internal/config"
	appHTTP "github.com/jget-crm/backoffice/internal/handler/http"
	"github.com/jget-crm/backoffice/internal/pkg/database"
	"github.com/jget-crm/backoffice/internal/pkg/jwt"
	"github.com/jget-crm/backoffice/internal/pkg/scheduler"
	"github.com/jget-crm/backoffice/internal/pkg/telegram"
	"github.com/jget-crm/backoffice/internal/repository/postgresql"
	attendanceService "github.com/jget-crm/backoffice/internal/service/attendance"
	authService "github.com/jget-crm/backoffice/internal/service/auth"
	dashboardService "github.com/jget-crm/backoffice/internal/service/dashboard"
	employeeService "github.com/jget-crm/backoffice/internal/service/employee"
	leadService "github.com/jget-crm/backoffice/internal/service/lead"
	orgService "github.com/jget-crm/backoffice/internal/service/org"
	payrollService "github.com/jget-crm/backoffice/internal/service/payroll"
	shiftService "github.com/jget-crm/backoffice/internal/service/shift"
	studentService "github.com/jget-crm/backoffice/internal/service/student"
	ticketService "github.com/jget-crm/backoffice/internal/service/ticket"
	userService "github.com/jget-crm/backoffice/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	cityRepo := postgresql.NewCityRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	squadRepo := postgresql.NewSquadRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	positionRepo := postgresql.NewPositionRepository(db)
	studentRepo := postgresql.NewStudentRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)
	balanceRepo := postgresql.NewBalanceRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	expenseRepo := postgresql.NewExpenseRepository(db)
	employeeAttRepo := postgresql.NewEmployeeAttendanceRepository(db)
	studentAttRepo := postgresql.NewStudentAttendanceRepository(db)
	ticketRepo := postgresql.NewTicketRepository(db)
	leadRepo := postgresql.NewLeadRepository(db)
	statsRepo := postgresql.NewStatsRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	notifier := telegram.NewNotifier(cfg.Telegram)

	authSvc := authService.NewService(userRepo, jwtService)
	userSvc := userService.NewService(userRepo)
	orgSvc := orgService.NewService(cityRepo, branchRepo)
	shiftSvc := shiftService.NewService(
		tx,
		shiftRepo,
		squadRepo,
		branchRepo,
		employeeRepo,
		studentRepo,
		paymentRepo,
		balanceRepo,
		salaryRepo,
		expenseRepo,
		employeeAttRepo,
		studentAttRepo,
	)
	employeeSvc := employeeService.NewService(tx, employeeRepo, positionRepo, branchRepo, salaryRepo, shiftRepo, employeeAttRepo)
	studentSvc := studentService.NewService(tx, studentRepo, paymentRepo, balanceRepo, shiftRepo, studentAttRepo)
	attendanceSvc := attendanceService.NewService(employeeAttRepo, studentAttRepo, employeeRepo, studentRepo, shiftRepo)
	payrollSvc := payrollService.NewService(salaryRepo, expenseRepo, employeeRepo, shiftRepo, employeeAttRepo)
	ticketSvc := ticketService.NewService(ticketRepo, notifier)
	leadSvc := leadService.NewService(leadRepo, notifier)
	dashboardSvc := dashboardService.NewService(statsRepo)

	jobs := scheduler.New()
	if err := jobs.Register(cfg.App.CallbackSweep, "lead-callback-sweep", leadSvc.SweepOverdueCallbacks); err != nil {
		log.Fatal("Failed to schedule callback sweep:", err)
	}
	jobs.Start()
	defer jobs.Stop()

	router := appHTTP.NewRouter(cfg, jwtService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc, jwtService),
		User:       appHTTP.NewUserHandler(userSvc),
		Org:        appHTTP.NewOrgHandler(orgSvc),
		Shift:      appHTTP.NewShiftHandler(shiftSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Student:    appHTTP.NewStudentHandler(studentSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Ticket:     appHTTP.NewTicketHandler(ticketSvc),
		Lead:       appHTTP.NewLeadHandler(leadSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server running on port", cfg.App.Port)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error:", err)
	}
}
