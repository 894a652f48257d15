package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/pcbuilder/internal/adapters/httpserver"
	"github.com/phenrril/pcbuilder/internal/adapters/repo/postgres"
	"github.com/phenrril/pcbuilder/internal/adapters/sheets"
	"github.com/phenrril/pcbuilder/internal/adapters/submission/webhook"
	"github.com/phenrril/pcbuilder/internal/domain"
	"github.com/phenrril/pcbuilder/internal/usecase"
)

type App struct {
	DB          *gorm.DB
	ComponentUC *usecase.ComponentUC
	BuildUC     *usecase.BuildUC
	RequestUC   *usecase.RequestUC
	SessionKey  string
	AdminToken  string
}

func NewApp(db *gorm.DB) (*App, error) {
	compRepo := postgres.NewComponentRepo(db)
	buildRepo := postgres.NewBuildRepo(db)
	reqRepo := postgres.NewBuildRequestRepo(db)
	custRepo := postgres.NewCustomerRepo(db)

	sessionKey := os.Getenv("SESSION_KEY")
	if sessionKey == "" {
		log.Warn().Msg("SESSION_KEY empty, using development key")
	}
	adminToken := strings.TrimSpace(os.Getenv("ADMIN_TOKEN"))
	if adminToken == "" {
		log.Info().Msg("ADMIN_TOKEN empty, operator routes disabled")
	}

	var submitter domain.Submitter = webhook.Noop{}
	if u := strings.TrimSpace(os.Getenv("BUILD_REQUEST_WEBHOOK_URL")); u != "" {
		submitter = webhook.NewSubmitter(u, os.Getenv("SECRET_KEY"))
	}

	app := &App{DB: db, SessionKey: sessionKey, AdminToken: adminToken}
	app.ComponentUC = &usecase.ComponentUC{Components: compRepo}
	app.BuildUC = &usecase.BuildUC{Builds: buildRepo, Catalog: app.ComponentUC}
	app.RequestUC = &usecase.RequestUC{
		Requests:  reqRepo,
		Customers: custRepo,
		Submitter: submitter,
		Schedule:  domain.DefaultServiceSchedule,
	}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.ComponentUC, a.BuildUC, a.RequestUC, a.SessionKey, a.AdminToken)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Component{}, &domain.Build{}, &domain.BuildRequestRecord{}, &domain.Customer{},
	); err != nil {
		return err
	}
	ctx := context.Background()

	if path := strings.TrimSpace(os.Getenv("CATALOG_XLSX")); path != "" {
		if err := a.ImportCatalog(ctx, path); err != nil {
			return err
		}
	}

	if os.Getenv("SEED_CATALOG") == "0" {
		return nil
	}
	n, err := a.ComponentUC.Components.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return seedComponents(ctx, a.ComponentUC)
	}
	return nil
}

// ImportCatalog upserts the components listed in the workbook at path.
func (a *App) ImportCatalog(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("catalog workbook: %w", err)
	}
	defer f.Close()
	parts, rep, err := sheets.ImportComponents(f)
	if err != nil {
		return err
	}
	for _, e := range rep.Errors {
		log.Warn().Str("file", path).Str("row", e).Msg("catalog row skipped")
	}
	created, updated, err := a.ComponentUC.Import(ctx, parts)
	if err != nil {
		return err
	}
	log.Info().
		Str("file", path).
		Int("rows", rep.Rows).
		Int("created", created).
		Int("updated", updated).
		Int("skipped", rep.Skipped).
		Msg("catalog import finished")
	return nil
}
