package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/adapters/httpapi"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/adapters/llm"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/incident"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/remediation"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/logging"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/server"
)

// repositories はバックエンドに依らないリポジトリの束です。
type repositories struct {
	employees employee.Repository
	trainings training.Repository
	incidents incident.Repository
	ledger    ppe.Repository
	org       org.Repository
	directory org.EmployeeDirectory
	finder    employeeFinder
	tx        transactionManager
}

type employeeFinder interface {
	EmployeeExists(ctx context.Context, id string) (bool, error)
}

type transactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(os.Getenv("LOG_LEVEL"))

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage backend")
	}
	defer cleanup()

	employeeSvc := employee.NewService(repos.employees, nil, repos.tx)
	trainingSvc := training.NewService(repos.trainings, repos.finder, nil)
	incidentSvc := incident.NewService(repos.incidents, repos.finder, nil)
	ppeSvc := ppe.NewService(repos.ledger, repos.finder, nil, repos.tx)
	orgSvc := org.NewService(repos.org, repos.directory, repos.tx)
	remediationSvc := remediation.NewService(employeeSvc, trainingSvc, buildSuggester(cfg, logger), nil)

	router := httpapi.NewRouter(httpapi.Services{
		Employees:   employeeSvc,
		Trainings:   trainingSvc,
		Incidents:   incidentSvc,
		PPE:         ppeSvc,
		Org:         orgSvc,
		Remediation: remediationSvc,
	})

	httpServer := server.New(cfg.Server.ListenAddr, router, logger)

	logger.Info().
		Str("listen_addr", cfg.Server.ListenAddr).
		Str("backend", cfg.Storage.Backend).
		Msg("http server starting")

	if err := httpServer.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server stopped with error")
	}
}

func buildRepositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repositories, func(), error) {
	if cfg.Storage.Backend == config.BackendPostgres {
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return repositories{}, nil, err
		}

		employees := postgres.NewEmployeeRepository(pool)
		return repositories{
			employees: employees,
			trainings: postgres.NewTrainingRepository(pool),
			incidents: postgres.NewIncidentRepository(pool),
			ledger:    postgres.NewLedgerRepository(pool),
			org:       postgres.NewDepartmentRepository(pool),
			directory: employees,
			finder:    employees,
			tx:        pg.NewTransactionManager(pool),
		}, pool.Close, nil
	}

	store := memory.NewStore()
	if cfg.Storage.Seed {
		memory.Seed(store, time.Now().UTC())
		logger.Info().Msg("in-memory store seeded with demo data")
	}

	employees := memory.NewEmployeeRepository(store)
	return repositories{
		employees: employees,
		trainings: memory.NewTrainingRepository(store),
		incidents: memory.NewIncidentRepository(store),
		ledger:    memory.NewLedgerRepository(store),
		org:       memory.NewDepartmentRepository(store),
		directory: employees,
		finder:    employees,
		tx:        memory.NewTransactionManager(store),
	}, func() {}, nil
}

func buildSuggester(cfg *config.Config, logger zerolog.Logger) remediation.Suggester {
	if cfg.OpenAI.APIKey == "" {
		logger.Warn().Msg("openai api key not configured, remediation suggestions disabled")
		return nil
	}
	return llm.NewOpenAISuggester(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
}
