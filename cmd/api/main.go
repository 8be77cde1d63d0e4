package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwise-hq/shiftwise-backend/internal/config"
	appHTTP "github.com/shiftwise-hq/shiftwise-backend/internal/handler/http"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/cron"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/database"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/jwt"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
	"github.com/shiftwise-hq/shiftwise-backend/internal/repository/postgresql"
	latenessService "github.com/shiftwise-hq/shiftwise-backend/internal/service/lateness"
	notificationService "github.com/shiftwise-hq/shiftwise-backend/internal/service/notification"
	reportService "github.com/shiftwise-hq/shiftwise-backend/internal/service/report"
	shiftService "github.com/shiftwise-hq/shiftwise-backend/internal/service/shift"
	timeentryService "github.com/shiftwise-hq/shiftwise-backend/internal/service/timeentry"
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

	overtimeMultiplier, err := decimal.NewFromString(cfg.Attendance.OvertimeMultiplier)
	if err != nil {
		fmt.Println("Invalid OVERTIME_MULTIPLIER:", err)
		return
	}

	loc := cfg.Location()
	policy := cfg.Policy()
	clock := timeutil.NewSystemClock()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	entryRepo := postgresql.NewTimeEntryRepository(db)
	latenessRepo := postgresql.NewLatenessRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	notificationSvc := notificationService.NewNotificationService(notificationRepo, notificationService.Config{})
	defer notificationSvc.Stop()

	shiftSvc := shiftService.NewShiftService(shiftRepo, entryRepo, employeeRepo)
	entrySvc := timeentryService.NewEntryService(
		entryRepo,
		employeeRepo,
		leaveRepo,
		shiftRepo,
		shiftSvc,
		latenessRepo,
		notificationSvc,
		clock,
		policy,
		loc,
	)
	latenessSvc := latenessService.NewLatenessService(latenessRepo, clock)
	reportSvc := reportService.NewReportService(
		entryRepo,
		shiftRepo,
		employeeRepo,
		leaveRepo,
		latenessRepo,
		clock,
		policy,
		loc,
		overtimeMultiplier,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(
		shiftRepo,
		entryRepo,
		leaveRepo,
		entrySvc,
		notificationSvc,
		clock,
		policy,
		loc,
		time.Duration(cfg.Attendance.StaleEntryMaxHours)*time.Hour,
	)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	timeEntryHandler := appHTTP.NewTimeEntryHandler(entrySvc, loc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc, loc)
	latenessHandler := appHTTP.NewLatenessHandler(latenessSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		jwtService,
		timeEntryHandler,
		shiftHandler,
		latenessHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
