package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-hrms/internal/common/api"
	"go-hrms/internal/config"
	"go-hrms/internal/database"
	"go-hrms/internal/features/approval"
	"go-hrms/internal/features/audit"
	"go-hrms/internal/features/auth"
	"go-hrms/internal/features/automation"
	cron_feature "go-hrms/internal/features/cron"
	"go-hrms/internal/features/leave"
	"go-hrms/internal/features/notification"
	"go-hrms/internal/features/overtime"
	"go-hrms/internal/features/reimbursement"
	"go-hrms/internal/features/report"
	"go-hrms/internal/features/system"
	"go-hrms/internal/features/user"
	"go-hrms/internal/logger"
	"go-hrms/internal/middleware"
	"go-hrms/pkg/utils"

	_ "go-hrms/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// AsListener tags the constructor so Fx adds it to the approval listener
// group consumed by the dispatcher.
func AsListener(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(approval.Listener)),
		fx.ResultTags(`group:"approval_listeners"`),
	)
}

// AsAccessor tags the constructor so Fx adds it to the request accessor
// group consumed by the approval registry.
func AsAccessor(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(approval.RequestAccessor)),
		fx.ResultTags(`group:"approvables"`),
	)
}

// RegisterAllRoutes takes the group "routes" and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeSchema migrates the relational tables on startup.
func InitializeSchema(lc fx.Lifecycle, gdb *database.GormDB) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return gdb.DB.WithContext(ctx).AutoMigrate(
				&user.Role{},
				&user.Branch{},
				&user.User{},
				&approval.Step{},
				&leave.LeaveRequest{},
				&leave.LeaveBalance{},
				&overtime.OvertimeRequest{},
				&reimbursement.ReimbursementRequest{},
			)
		},
	})
}

// @title           HRMS API
// @version         1.0
// @description     HR request management with multi-level sequential approvals.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Databases
			database.NewGormDB,
			database.NewMongoDB,

			// Approval core
			approval.NewStepStore,
			approval.NewAdminPolicy,
			approval.NewEngine,
			fx.Annotate(approval.NewRegistry, fx.ParamTags(`group:"approvables"`)),
			fx.Annotate(approval.NewDispatcher, fx.ParamTags(`group:"approval_listeners"`)),
			approval.NewApprovalService,

			// Request kinds exposed to the engine
			AsAccessor(func() approval.TableAccessor {
				return approval.TableAccessor{KindName: leave.Kind, Table: leave.LeaveRequest{}.TableName()}
			}),
			AsAccessor(func() approval.TableAccessor {
				return approval.TableAccessor{KindName: overtime.Kind, Table: overtime.OvertimeRequest{}.TableName()}
			}),
			AsAccessor(func() approval.TableAccessor {
				return approval.TableAccessor{KindName: reimbursement.Kind, Table: reimbursement.ReimbursementRequest{}.TableName()}
			}),

			// Repositories
			user.NewUserRepository,
			leave.NewLeaveRepository,
			overtime.NewOvertimeRepository,
			reimbursement.NewReimbursementRepository,
			notification.NewNotificationRepository,
			audit.NewAuditRepository,
			automation.NewScriptRepository,

			// Services
			user.NewUserService,
			auth.NewAuthService,
			leave.NewLeaveService,
			overtime.NewOvertimeService,
			reimbursement.NewReimbursementService,
			notification.NewHub,
			notification.NewNotificationService,
			audit.NewAuditService,
			automation.NewRunner,
			report.NewReportService,
			cron_feature.NewReminderService,

			// Post-commit event listeners
			AsListener(notification.NewApprovalListener),
			AsListener(leave.NewApprovalListener),
			AsListener(overtime.NewApprovalListener),
			AsListener(reimbursement.NewApprovalListener),
			AsListener(audit.NewApprovalListener),
			AsListener(automation.NewApprovalListener),

			// Controllers
			auth.NewAuthController,
			user.NewUserController,
			approval.NewApprovalController,
			leave.NewLeaveController,
			overtime.NewOvertimeController,
			reimbursement.NewReimbursementController,
			notification.NewNotificationController,
			audit.NewAuditController,
			automation.NewScriptController,
			report.NewReportController,
			system.NewWebSocketController,

			// API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(approval.NewApprovalApi),
			AsRoute(leave.NewLeaveApi),
			AsRoute(overtime.NewOvertimeApi),
			AsRoute(reimbursement.NewReimbursementApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(automation.NewAutomationApi),
			AsRoute(report.NewReportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			InitializeSchema,
			RegisterAllRoutesWithAnnotation,
			StartServer,
			cron_feature.Register,
		),
	)

	app.Run()
}
