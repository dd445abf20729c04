package cmd

import (
	"github.com/kinfolkhq/kinfolk/api"
	"github.com/kinfolkhq/kinfolk/authorization"
	"github.com/kinfolkhq/kinfolk/invites"
	"github.com/kinfolkhq/kinfolk/jobs"
	"github.com/kinfolkhq/kinfolk/manage"
	"github.com/kinfolkhq/kinfolk/tokens"
	"github.com/kinfolkhq/kinfolk/user"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCommand = cobra.Command{
	Use:   "serve",
	Short: "starts the http server",
	Long:  `Starts a http server and serves the service`,
	Run: func(cmd *cobra.Command, args []string) {
		//this is our composite root - might wanna shift that somewhere else later

		//setup datastore
		dataStore := mustResolveUsableDataStore()
		//load translations
		registry := mustResolveTranslationRegistry()

		//setup token issuer
		issuer := tokens.NewIssuer(TopLevelLogger.Named("token_issuer"), LoadedConfig.JWT, dataStore)

		//setup mailer
		mailer := mustResolveMailer(registry)

		//events dispatcher
		dispatcher := bootstrapDispatcher(dataStore.Auditor())

		//setup business services
		inviteService := invites.New(dataStore, TopLevelLogger.Named("invite_service"), LoadedConfig.Behaviour, dispatcher)
		authService := authorization.New(dataStore, TopLevelLogger.Named("authorization_service"))
		userService := user.New(dataStore, TopLevelLogger.Named("user_service"), LoadedConfig, inviteService, issuer, dispatcher)

		//setup management services
		userManager := manage.NewUserService(dataStore, TopLevelLogger.Named("user_manager"), LoadedConfig, dispatcher)
		roleManager := manage.NewRoleService(dataStore, TopLevelLogger.Named("role_manager"), dispatcher)
		familyManager := manage.NewFamilyService(dataStore, TopLevelLogger.Named("family_manager"), dispatcher)
		inviteManager := manage.NewInviteService(dataStore, TopLevelLogger.Named("invite_manager"), inviteService)

		//setup periodic jobs
		if LoadedConfig.Jobs.Enabled {
			drain := jobs.NewOutboxDrain(
				dataStore,
				mailer,
				TopLevelLogger.Named("outbox_drain"),
				dispatcher,
				LoadedConfig.Behaviour.DefaultLocale,
			)
			scheduler := jobs.NewScheduler(
				TopLevelLogger.Named("scheduler"),
				LoadedConfig,
				inviteService,
				drain,
			)
			if err := scheduler.Start(); err != nil {
				TopLevelLogger.Fatal("Failed to start scheduler", zap.Error(err))
			}
			defer func() {
				<-scheduler.Stop().Done()
			}()
		}

		server, err := api.NewServer(LoadedConfig, TopLevelLogger.Named("server"),
			issuer,
			userService,
			inviteService,
			authService,
			dataStore,
			dispatcher,
			registry,
			userManager,
			roleManager,
			familyManager,
			inviteManager,
		)
		if err != nil {
			TopLevelLogger.Fatal("Failed to create server", zap.Error(err))
		}
		err = server.Start()
		if err != nil {
			TopLevelLogger.Fatal("Server stopped with error", zap.Error(err))
		}
		TopLevelLogger.Info("Shutdown complete")
	},
}

func init() {
	viper.SetDefault("port", "3000")
	viper.SetDefault("log_level", "debug")
}
