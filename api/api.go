package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-playground/validator/v10"
	"github.com/kinfolkhq/kinfolk/api/app/management"
	"github.com/kinfolkhq/kinfolk/api/app/projects"
	"github.com/kinfolkhq/kinfolk/api/auth"
	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/events"
	"github.com/kinfolkhq/kinfolk/i18n"
	"github.com/kinfolkhq/kinfolk/invites"
	"github.com/kinfolkhq/kinfolk/manage"
	"github.com/kinfolkhq/kinfolk/tokens"
	"github.com/kinfolkhq/kinfolk/user"

	ar "github.com/kinfolkhq/kinfolk/api/app/account"
	ir "github.com/kinfolkhq/kinfolk/api/app/invites"

	"go.uber.org/zap"
)

var validate *validator.Validate
var tokenAuth *jwtauth.JWTAuth

func compose(logger *zap.Logger,
	cfg *config.Configuration,
	issuer *tokens.TokenIssuer,
	userService *user.Service,
	inviteService *invites.Service,
	authService *authorization.Service,
	store *db.DataStore,
	dispatcher *events.Dispatcher,
	registry *i18n.TranslationRegistry,
	manageUserService *manage.UserService,
	manageRoleService *manage.RoleService,
	manageFamilyService *manage.FamilyService,
	manageInviteService *manage.InviteService) (*chi.Mux, error) {
	validate = validator.New()

	err := validate.RegisterValidation("minpwd", func(fl validator.FieldLevel) bool {
		if cfg.Behaviour.PasswordMinLength <= 0 {
			return true
		}
		return len(fl.Field().String()) >= cfg.Behaviour.PasswordMinLength
	})
	if err != nil {
		logger.Error("Could not create mindpwd validation", zap.Error(err))
	}
	// use same settings as issuer (duh)
	tokenAuth = jwtauth.New(issuer.Alg(), issuer.PrivateKey(), issuer.PublicKey())

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(loggerMiddleware(logger))

	r.Use(middleware.Recoverer)

	r.Use(middleware.Timeout(50 * time.Second))
	if len(registry.Languages()) > 1 {
		r.Use(languageMiddleware(cfg.Behaviour.DefaultLocale, registry))
	}
	r.Use(jwtauth.Verifier(tokenAuth))

	if cfg.DebugMode() {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("running in debug mode - no auto redirects to site"))
		})
	} else {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, cfg.Behaviour.Site, http.StatusFound)
		})
	}

	accountRessource := ar.NewAccountRessource(
		logger.Named("account_ressource"),
		userService,
		inviteService,
		validate,
		cfg,
	)
	inviteRessource := ir.NewInviteRessource(
		logger.Named("invite_ressource"),
		inviteService,
		validate,
	)
	projectRessource := projects.NewProjectRessource(
		logger.Named("project_ressource"),
		store,
		validate,
		dispatcher,
	)

	if cfg.ManageEndpoint.Enable {
		manageRessource := management.NewManagementRessource(
			logger.Named("management_ressource"),
			*cfg,
			manageUserService,
			manageRoleService,
			manageFamilyService,
			manageInviteService,
		)
		r.Mount("/manage", manageRessource.Router())
	}

	r.Mount("/account", accountRessource.Router())

	r.Route("/families/{familyID}", func(fr chi.Router) {
		fr.Use(auth.FamilyContext(store, authService))
		fr.Mount("/invites", inviteRessource.Router())
		fr.Mount("/projects", projectRessource.Router())
	})

	return r, nil
}
