package main

import (
	"embed"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kinfolkhq/kinfolk/cmd"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed templates/email/template.html
//go:embed templates/i18n
var templates embed.FS

var (
	Version   = "?"
	BuildTime = "?"
	GitCommit = "-"
	GitRef    = "-"
)

func main() {
	//version info
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("kinfolk %s, built %s from %s (%s)", Version, BuildTime, GitCommit, GitRef)
		return
	}
	logger := bootstrap()
	defer func() {
		_ = logger.Sync()

	}()
	cmd.TopLevelLogger = logger
	cmd.Execute()
}

func bootstrap() *zap.Logger {
	if _, err := os.Stat(".env"); err == nil {
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Error loading .env file")
		}
	}
	cfg := zap.NewProductionConfig()
	if r := os.Getenv("DEBUG_LOG"); r == "true" {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		log.Fatal(err)
	}
	cobra.OnInitialize(func() { initConfig(logger) })
	return logger
}

func setDefaults() {
	viper.SetDefault("server.load-template-folder", false)
	viper.SetDefault("smtp.enabled", false)
	viper.SetDefault("behaviour.default-role", "member")
	viper.SetDefault("behaviour.invite-expiry", "336h")
	viper.SetDefault("behaviour.reminder-lead", "48h")
	viper.SetDefault("behaviour.invite-retention", "2160h")
	viper.SetDefault("behaviour.default-locale", "en")
	viper.SetDefault("behaviour.password-min-length", 8)
	viper.SetDefault("jwt.exp", "900s")
	viper.SetDefault("jwt.refresh-token-expiry", "3600s")
	viper.SetDefault("jobs.enabled", true)
	viper.SetDefault("jobs.expire-sweep", "@every 5m")
	viper.SetDefault("jobs.reminder-sweep", "@every 1h")
	viper.SetDefault("jobs.outbox-drain", "@every 1m")
	viper.SetDefault("jobs.retention-sweep", "@daily")
	viper.SetDefault("manage-endpoint.enable", false)
}

func initConfig(logger *zap.Logger) {
	bind := func(from string, to string) {
		err := viper.BindEnv(to, from)
		if err != nil {
			logger.Error("unable to bindenv", zap.String("from", from), zap.String(to, to), zap.Error(err))
		}

	}
	setDefaults()
	bind("PORT", "server.port")
	bind("ADDRESS", "server.address")

	bind("KFLK_PORT", "server.port")
	bind("KFLK_ADDRESS", "server.address")
	bind("KFLK_SERVER_LOAD_TEMPLATE_FOLDER", "server.load-template-folder")

	bind("KFLK_SMTP_ENABLED", "smtp.enabled")
	bind("KFLK_SMTP_HOST", "smtp.host")
	bind("KFLK_SMTP_PORT", "smtp.port")
	bind("KFLK_SMTP_USERNAME", "smtp.username")
	bind("KFLK_SMTP_PASSWORD", "smtp.password")
	bind("KFLK_SMTP_DISPLAYNAME", "smtp.display-name")
	bind("KFLK_SMTP_ADDRESS", "smtp.address")

	bind("KFLK_DATABASE_TYPE", "database.type")
	bind("KFLK_DATABASE_DSN", "database.dsn")

	bind("KFLK_BEHAVIOUR_NAME", "behaviour.name")
	bind("KFLK_BEHAVIOUR_SITE", "behaviour.site")
	bind("KFLK_BEHAVIOUR_SERVICE_DOMAIN", "behaviour.service-domain")
	bind("KFLK_BEHAVIOUR_DEFAULT_LOCALE", "behaviour.default-locale")
	bind("KFLK_BEHAVIOUR_INVITE_EXPIRY", "behaviour.invite-expiry")
	bind("KFLK_BEHAVIOUR_REMINDER_LEAD", "behaviour.reminder-lead")
	bind("KFLK_BEHAVIOUR_INVITE_RETENTION", "behaviour.invite-retention")
	bind("KFLK_BEHAVIOUR_PASSWORD_MIN_LENGTH", "behaviour.password-min-length")
	bind("KFLK_BEHAVIOUR_DEFAULT_ROLE", "behaviour.default-role")

	bind("KFLK_JWT_AUDIENCE", "jwt.aud")
	bind("KFLK_JWT_ISSUER", "jwt.iss")
	bind("KFLK_JWT_ALG", "jwt.alg")
	bind("KFLK_JWT_EXP", "jwt.exp")
	bind("KFLK_JWT_REFRESH_EXP", "jwt.refresh-token-expiry")

	bind("KFLK_JWT_HMAC_SIGNING_KEY", "jwt.hmac-signing-key")
	bind("KFLK_JWT_HMAC_SIGNING_KEY_FILE", "jwt.hmac-signing-key-file")

	bind("KFLK_JWT_RSA_PRIVATE_KEY", "jwt.rsa-private-key")
	bind("KFLK_JWT_RSA_PRIVATE_KEY_FILE", "jwt.rsa-private-key-file")

	bind("KFLK_JWT_RSA_PUBLIC_KEY", "jwt.rsa-public-key")
	bind("KFLK_JWT_RSA_PUBLIC_KEY_FILE", "jwt.rsa-public-key-file")

	bind("KFLK_JOBS_ENABLED", "jobs.enabled")
	bind("KFLK_JOBS_EXPIRE_SWEEP", "jobs.expire-sweep")
	bind("KFLK_JOBS_REMINDER_SWEEP", "jobs.reminder-sweep")
	bind("KFLK_JOBS_OUTBOX_DRAIN", "jobs.outbox-drain")
	bind("KFLK_JOBS_RETENTION_SWEEP", "jobs.retention-sweep")

	bind("KFLK_MANAGE_ENDPOINT_ENABLE", "manage-endpoint.enable")
	bind("KFLK_MANAGE_ENDPOINT_CORS_ALLOWED_ORIGINS", "manage-endpoint.cors.allowed-origins")
	bind("KFLK_MANAGE_ENDPOINT_CORS_ALLOWED_METHODS", "manage-endpoint.cors.allowed-methods")
	bind("KFLK_MANAGE_ENDPOINT_CORS_ALLOW_CREDENTIALS", "manage-endpoint.cors.allow-credentials")

	if cmd.ConfigFileLocation != "" {
		logger.Debug("Using supplied config file", zap.String("file", string(cmd.ConfigFileLocation)))
		viper.SetConfigFile(string(cmd.ConfigFileLocation))
	} else {
		path, err := os.Getwd()
		if err != nil {
			logger.Warn("Unable to get current working dir", zap.Error(err))
		}
		cobra.CheckErr(err)
		viper.AddConfigPath(path)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		logger.Debug("Looking for default config file")
	}
	//precedence: environment overwrites yml
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Debug("No confg file loaded")
	} else {
		logger.Debug("Config file loaded", zap.String("file", viper.ConfigFileUsed()))
	}

	conf := &config.Configuration{}
	err := viper.Unmarshal(conf)
	if err != nil {
		logger.Fatal("Unable to unmarshall config", zap.Error(err))
	}
	logger.Debug("Config loaded", zap.Any("config", conf))
	logger.Debug("Validating final config")
	if err = conf.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	cmd.LoadedConfig = conf

	if cmd.LoadedConfig.Server.LoadTemplateFolder {
		if _, err := os.Stat("templates"); os.IsNotExist(err) {
			logger.Fatal("You need to add the templates folder when using  `server.load-template-folder:true`")
		}
		cmd.FileSystemsConfig = &config.FileSystems{
			Templates: os.DirFS("."),
		}
	} else {
		cmd.FileSystemsConfig = &config.FileSystems{
			Templates: templates,
		}
	}

}
