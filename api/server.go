package api

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/db"
	"github.com/kinfolkhq/kinfolk/events"
	"github.com/kinfolkhq/kinfolk/i18n"
	"github.com/kinfolkhq/kinfolk/invites"
	"github.com/kinfolkhq/kinfolk/manage"
	"github.com/kinfolkhq/kinfolk/tokens"
	"github.com/kinfolkhq/kinfolk/user"
	"go.uber.org/zap"
)

type Server struct {
	server *http.Server
	log    *zap.Logger
}

func NewServer(
	cfg *config.Configuration,
	logger *zap.Logger,
	issuer *tokens.TokenIssuer,
	userService *user.Service,
	inviteService *invites.Service,
	authService *authorization.Service,
	store *db.DataStore,
	dispatcher *events.Dispatcher,
	registry *i18n.TranslationRegistry,
	manageUser *manage.UserService,
	manageRole *manage.RoleService,
	manageFamily *manage.FamilyService,
	manageInvite *manage.InviteService) (*Server, error) {
	api, err := compose(logger.Named("api"),
		cfg,
		issuer,
		userService,
		inviteService,
		authService,
		store,
		dispatcher,
		registry,
		manageUser,
		manageRole,
		manageFamily,
		manageInvite)
	if err != nil {
		return nil, err
	}
	bind := net.JoinHostPort(cfg.Server.Address, strconv.Itoa(cfg.Server.Port))
	srv := http.Server{
		Addr:              bind,
		Handler:           api,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &Server{
		server: &srv,
		log:    logger,
	}, nil
}

// Start runs ListenAndServe on the http.Server with graceful shutdown.
func (srv *Server) Start() error {
	srv.log.Info("starting server")
	go func() {
		if err := srv.server.ListenAndServe(); err != http.ErrServerClosed {
			panic(err)
		}
	}()
	srv.log.Info("listening", zap.String("addr", srv.server.Addr))

	quit := make(chan os.Signal, 1)
	//nolint
	signal.Notify(quit, os.Interrupt)
	sig := <-quit
	srv.log.Info("shutting down", zap.String("signal", sig.String()))

	if err := srv.server.Shutdown(context.Background()); err != nil {
		srv.log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	srv.log.Info("graceful shutdown completed")
	return nil
}
