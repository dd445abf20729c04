package config

import (
	"errors"
	"io/fs"
	"os"
	"time"
)

// ServerConfiguration contains the http server settings
type ServerConfiguration struct {
	Port    int
	Address string
	// LoadTemplateFolder loads templates from the local folder instead of the embedded ones
	LoadTemplateFolder bool `mapstructure:"load-template-folder"`
}

// SMTPConfiguration contains the email settings
type SMTPConfiguration struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string `json:"-"`
	// DisplayName will be displayed as email sender
	DisplayName string `mapstructure:"display-name"`
	// Address is the sender address
	Address string
}

// DatabaseConfiguration contains the settings required to connect to a database
type DatabaseConfiguration struct {
	Type string
	DSN  string `json:"-"`
}

// BehaviourConfiguration configures how the service will behave
type BehaviourConfiguration struct {
	Name          string
	Site          string
	ServiceDomain string `mapstructure:"service-domain"`
	DefaultLocale string `mapstructure:"default-locale"`
	// InviteExpiry is how long a fresh invitation token stays redeemable
	InviteExpiry time.Duration `mapstructure:"invite-expiry"`
	// ReminderLead is the window before expiry in which a reminder email is due
	ReminderLead time.Duration `mapstructure:"reminder-lead"`
	// InviteRetention is how long terminal invitations are kept before archiving
	InviteRetention   time.Duration `mapstructure:"invite-retention"`
	PasswordMinLength int           `mapstructure:"password-min-length"`
	// DefaultRole is the role granted when an invitation does not name one
	DefaultRole string `mapstructure:"default-role"`
}

// JWTConfiguration habours all JWT and refresh token settings
type JWTConfiguration struct {
	Algorithm          string        `mapstructure:"alg"`
	Issuer             string        `mapstructure:"iss"`
	Audience           []string      `mapstructure:"aud"`
	Expiry             time.Duration `mapstructure:"exp"`
	HMACSigningKey     string        `mapstructure:"hmac-signing-key"      json:"-"`
	HMACSigningKeyFile string        `mapstructure:"hmac-signing-key-file"`
	RSAPrivateKey      string        `mapstructure:"rsa-private-key"       json:"-"`
	RSAPublicKey       string        `mapstructure:"rsa-public-key"        json:"-"`
	RSAPrivateKeyFile  string        `mapstructure:"rsa-private-key-file"`
	RSAPublicKeyFile   string        `mapstructure:"rsa-public-key-file"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh-token-expiry"`
}

// JobsConfiguration contains the cron specs for the periodic jobs
type JobsConfiguration struct {
	Enabled bool
	// ExpireSweep transitions pending invitations past their expiry
	ExpireSweep string `mapstructure:"expire-sweep"`
	// ReminderSweep enqueues reminder emails for invitations about to expire
	ReminderSweep string `mapstructure:"reminder-sweep"`
	// OutboxDrain sends due outbox entries
	OutboxDrain string `mapstructure:"outbox-drain"`
	// RetentionSweep archives terminal invitations past the retention window
	RetentionSweep string `mapstructure:"retention-sweep"`
}

// CORSConfiguration very basic cors configuration
type CORSConfiguration struct {
	AllowCredentials bool     `mapstructure:"allow-credentials"`
	AllowedMethods   []string `mapstructure:"allowed-methods"`
	AllowedOrigins   []string `mapstructure:"allowed-origins"`
}

// ManageEndpointConfiguration habours the manage endpoint configuration
type ManageEndpointConfiguration struct {
	Enable bool
	CORS   *CORSConfiguration
}

// FileSystems contains the used file systems (either local or embedded)
type FileSystems struct {
	Templates fs.FS
}

// Configuration habours the entire kinfolk configuration
type Configuration struct {
	Server         *ServerConfiguration         `mapstructure:"server"`
	SMTP           *SMTPConfiguration           `mapstructure:"smtp"`
	Database       *DatabaseConfiguration       `mapstructure:"database"`
	Behaviour      *BehaviourConfiguration      `mapstructure:"behaviour"`
	JWT            *JWTConfiguration            `mapstructure:"jwt"`
	Jobs           *JobsConfiguration           `mapstructure:"jobs"`
	ManageEndpoint *ManageEndpointConfiguration `mapstructure:"manage-endpoint"`
}

// Validate does some basic validation of the config file and tries to be helpful on missconfiguration
func (c *Configuration) Validate() error {
	if c.Database == nil {
		return errors.New("no database configuration found")
	}
	if c.SMTP == nil {
		return errors.New("no SMTP configuration found")
	}
	if c.Behaviour == nil {
		return errors.New("no behaviour configuration found")
	}
	if c.Behaviour.InviteExpiry <= 0 {
		return errors.New("behaviour.invite-expiry has to be a positive duration")
	}
	if c.Behaviour.ReminderLead >= c.Behaviour.InviteExpiry {
		return errors.New(
			"behaviour.reminder-lead has to be shorter than behaviour.invite-expiry",
		)
	}
	if c.JWT == nil {
		return errors.New("no JWT configuration found")
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
		if c.JWT.HMACSigningKey == "" && c.JWT.HMACSigningKeyFile == "" {
			return errors.New(
				"when using jwt.alg HS256, HS384, HS512 you need to define either hmac-signing-key or hmac-signing-key-file",
			)
		}
	case "RS256", "RS384", "RS512":
		if c.JWT.RSAPublicKey == "" && c.JWT.RSAPublicKeyFile == "" {
			return errors.New(
				"when using jwt.alg RS256, RS384, RS512 you need to define either rsa-public-key or rsa-public-key-file",
			)
		}
		if c.JWT.RSAPrivateKey == "" && c.JWT.RSAPrivateKeyFile == "" {
			return errors.New(
				"when using jwt.alg RS256, RS384, RS512 you need to define either rsa-private-key or rsa-private-key-file",
			)
		}
	}
	if c.Server == nil {
		return errors.New("no server configuration found")
	}
	if c.ManageEndpoint != nil {
		if c.ManageEndpoint.Enable && c.ManageEndpoint.CORS == nil {
			return errors.New("manage endpoint has no cors settings")
		}
	}
	return nil
}

// DebugMode returns true if the KFLK_DEBUG_MODE variable is set
func (*Configuration) DebugMode() bool {
	if r := os.Getenv("KFLK_DEBUG_MODE"); r == "true" {
		return true
	}
	return false
}
