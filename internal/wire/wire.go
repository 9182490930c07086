// Package wire provides dependency injection for the CMMS engine.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/cmms/internal/adapters/docgen"
	"github.com/example/cmms/internal/adapters/filesystem"
	"github.com/example/cmms/internal/adapters/sqlite"
	"github.com/example/cmms/internal/app"
	"github.com/example/cmms/internal/config"
	"github.com/example/cmms/internal/core/lifecycle"
	"github.com/example/cmms/internal/db"
	"github.com/example/cmms/internal/logging"
	"github.com/example/cmms/internal/ports/primary"
	"github.com/example/cmms/internal/scheduler"
)

var (
	cfg               *config.Config
	taskService       primary.TaskService
	completionService primary.CompletionService
	sweepService      primary.SweepService
	historyService    primary.HistoryService
	attachmentService primary.AttachmentService
	workOrderService  primary.WorkOrderService
	sweepRunner       *scheduler.SweepRunner
	once              sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// TaskService returns the singleton TaskService instance.
func TaskService() primary.TaskService {
	once.Do(initServices)
	return taskService
}

// CompletionService returns the singleton CompletionService instance.
func CompletionService() primary.CompletionService {
	once.Do(initServices)
	return completionService
}

// SweepService returns the singleton SweepService instance.
func SweepService() primary.SweepService {
	once.Do(initServices)
	return sweepService
}

// HistoryService returns the singleton HistoryService instance.
func HistoryService() primary.HistoryService {
	once.Do(initServices)
	return historyService
}

// AttachmentService returns the singleton AttachmentService instance.
func AttachmentService() primary.AttachmentService {
	once.Do(initServices)
	return attachmentService
}

// WorkOrderService returns the singleton WorkOrderService instance.
func WorkOrderService() primary.WorkOrderService {
	once.Do(initServices)
	return workOrderService
}

// SweepRunner returns the singleton cron runner for the due-date sweep.
func SweepRunner() *scheduler.SweepRunner {
	once.Do(initServices)
	return sweepRunner
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	dir, err := config.DefaultDir()
	if err != nil {
		log.Fatalf("failed to resolve config directory: %v", err)
	}
	cfg, err = config.Load(dir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, true)

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = db.DefaultPath()
		if err != nil {
			log.Fatalf("failed to resolve database path: %v", err)
		}
	}
	database, err := db.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository and collaborator adapters (secondary ports)
	taskRepo := sqlite.NewTaskRepository(database)
	executionRepo := sqlite.NewExecutionRepository(database)
	attachmentRepo := sqlite.NewAttachmentRepository(database)
	workOrderRepo := sqlite.NewWorkOrderRepository(database)
	notifier := sqlite.NewNotifier(database)
	auditWriter := sqlite.NewAuditWriter(database)

	fileStore, err := filesystem.NewFileStore(cfg.FilesDir)
	if err != nil {
		log.Fatalf("failed to initialize file store: %v", err)
	}
	docGenerator := docgen.NewGenerator(taskRepo, executionRepo, fileStore)

	transitions := lifecycle.Default()

	// Services (primary port implementations)
	taskService = app.NewTaskService(taskRepo, notifier, docGenerator, auditWriter, transitions, logger)
	completionService = app.NewCompletionService(taskRepo, executionRepo, workOrderRepo, notifier, docGenerator, auditWriter, transitions, logger)
	sweepService = app.NewSweepService(taskRepo, auditWriter, logger)
	historyService = app.NewHistoryService(executionRepo)
	attachmentService = app.NewAttachmentService(executionRepo, attachmentRepo, fileStore, logger)
	workOrderService = app.NewWorkOrderService(workOrderRepo, auditWriter, transitions, logger)

	sweepRunner = scheduler.NewSweepRunner(sweepService, cfg.SweepSchedule, logger)
}
