package management

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/manage"
	"github.com/kinfolkhq/kinfolk/sanitize"
	"go.uber.org/zap"
)

// ManagementRessource habours the headless admin endpoints
type ManagementRessource struct {
	log           *zap.Logger
	cfg           config.Configuration
	userService   *manage.UserService
	roleService   *manage.RoleService
	familyService *manage.FamilyService
	inviteService *manage.InviteService
}

func (m *ManagementRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   m.cfg.ManageEndpoint.CORS.AllowedOrigins,
		AllowedMethods:   m.cfg.ManageEndpoint.CORS.AllowedMethods,
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: m.cfg.ManageEndpoint.CORS.AllowCredentials,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		m.log.Debug(
			"Could not found",
			zap.String("method", r.Method),
			sanitize.UserInputString("path", r.URL.Path),
		)
		w.WriteHeader(404)
	})

	r.Get("/.ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	r.Group(func(gr chi.Router) {
		gr.Use(jwtauth.Authenticator)
		gr.Use(superuserOnlyMiddleWare(m.userService))
		gr.Route("/users", func(r chi.Router) {
			r.With(pageinate).Get("/", m.listUsers)
			r.Get("/memberships", m.userMemberships)
			r.Put("/password/set", m.setUserPassword)
		})
		gr.Route("/roles", func(r chi.Router) {
			r.With(pageinate).Get("/", m.listRoles)
			r.Post("/create", m.createRole)
			r.Put("/capabilities/set", m.setRoleCapabilities)
			r.Put("/activate", m.activateRole)
			r.Put("/deactivate", m.deactivateRole)
			r.Delete("/delete", m.deleteRole)
		})
		gr.Route("/families", func(r chi.Router) {
			r.With(pageinate).Get("/", m.listFamilies)
			r.Post("/create", m.createFamily)
			r.Put("/archive", m.archiveFamily)
			r.Get("/members", m.familyMembers)
			r.Post("/role/grant", m.grantRole)
			r.Put("/role/revoke", m.revokeMembership)
		})
		gr.Route("/invites", func(r chi.Router) {
			r.With(pageinate).Get("/", m.listInvites)
			r.Post("/seed", m.seedInvite)
		})
	})
	return r
}

type superuserChecker interface {
	IsSuperuser(ctx context.Context, userID uuid.UUID) (bool, error)
}

func NewManagementRessource(logger *zap.Logger,
	cfg config.Configuration,
	userService *manage.UserService,
	roleService *manage.RoleService,
	familyService *manage.FamilyService,
	inviteService *manage.InviteService) *ManagementRessource {
	return &ManagementRessource{
		log:           logger,
		cfg:           cfg,
		userService:   userService,
		roleService:   roleService,
		familyService: familyService,
		inviteService: inviteService,
	}
}

type accountKey string

var pageSizeKey accountKey = "page_size"
var pageKey accountKey = "page"
var queryKey accountKey = "query"
var sortKey accountKey = "sort"

func pageinate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p := r.URL.Query().Get("page")

		intOrDefault := func(in string, def int) int {
			if in == "" {
				return def
			}
			i, err := strconv.Atoi(in)
			if err != nil {
				return def
			}
			return i
		}
		ctx = context.WithValue(ctx, pageKey, intOrDefault(p, 1))
		s := r.URL.Query().Get("page_size")
		ctx = context.WithValue(ctx, pageSizeKey, intOrDefault(s, 12))

		q := r.URL.Query().Get("query")
		ctx = context.WithValue(ctx, queryKey, q)

		sort := r.URL.Query().Get("sort")
		ctx = context.WithValue(ctx, sortKey, sort)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// superuserOnlyMiddleWare keeps everyone but flagged operators out
func superuserOnlyMiddleWare(sc superuserChecker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			id, err := uuid.Parse(token.Subject())
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			super, err := sc.IsSuperuser(r.Context(), id)
			if err != nil || !super {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
