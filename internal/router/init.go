package router

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/plateful/plateful/config"
	"github.com/plateful/plateful/internal/application"
	"github.com/plateful/plateful/internal/domain/repository"
	handlers "github.com/plateful/plateful/internal/interface/http"
	"github.com/plateful/plateful/internal/router/modules"
	"github.com/plateful/plateful/pkg/helpers"
)

// Deps carries the explicitly constructed infrastructure each module
// needs. Built once in main and passed down; no package-level singletons.
type Deps struct {
	Cfg      *config.Config
	Logger   *logrus.Logger
	Users    repository.UserRepository
	OTPs     repository.OTPRepository
	Recipes  repository.RecipeRepository
	Redis    *redis.Client
	GCS      *storage.Client
	ES       *elasticsearch.Client
	Pub      *helpers.RabbitPublisher
	Sessions *application.SessionService
}

// InitModules wires application services and handlers into the registry.
// Called once during startup.
func InitModules(r *Registry, d Deps) {
	authSvc := application.NewAuthService(d.Users, d.OTPs, d.Pub, d.Cfg, d.Logger)
	recipeSvc := application.NewRecipeService(d.Recipes, d.GCS, d.Cfg.GCSBucket, d.ES, d.Cfg.ESRecipesIndex, d.Logger)

	authHandler := handlers.NewAuthHandler(authSvc, d.Sessions, d.Logger)
	userHandler := handlers.NewUserHandler(d.Users, d.Logger)
	recipeHandler := handlers.NewRecipeHandler(recipeSvc, d.Logger)
	pagesHandler := handlers.NewPagesHandler()

	r.AddAPI(modules.NewAuthModule(authHandler, d.Sessions, d.Redis))
	r.AddAPI(modules.NewUserModule(userHandler, d.Sessions, d.Redis))
	r.AddAPI(modules.NewRecipeModule(recipeHandler, d.Sessions, d.Redis))
	if d.Cfg.DebugMetricsEnabled {
		r.AddAPI(modules.NewDebugModule(d.Redis))
	}
	r.AddRoot(modules.NewPagesModule(pagesHandler))
}
