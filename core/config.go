package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "CLASSDESK"

type (
	APIConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	SessionConfig struct {
		Store string // file | bolt | redis | memory
		Path  string
		Key   string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	DevAPIConfig struct {
		Address         string
		SecretKey       string
		TokenTTL        time.Duration
		ShutdownTimeout time.Duration
	}

	EmailConfig struct {
		DefaultFrom    mail.Address
		SendgridAPIKey string // empty: mails are printed instead of sent
	}

	Config struct {
		AppName      string
		Build        string
		Env          string // DEV (default), TEST, PROD
		Debug        bool
		TestMode     bool
		RollbarToken string
		API          APIConfig
		Session      SessionConfig
		Redis        RedisConfig
		DevAPI       DevAPIConfig
		Email        EmailConfig
	}
)

// NewConfig builds the Config from defaults, an optional config.yaml in the user config dir,
// an optional `.env.<env>` file and CLASSDESK_* environment variables (highest priority).
func NewConfig() (*Config, error) {
	env := strings.ToUpper(os.Getenv(envPrefix + "_ENV"))
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := ".env." + strings.ToLower(env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}

	confDir := defaultConfigDir()

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Classdesk")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("api.baseURL", "http://localhost:5000/api")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("session.store", "file")
	v.SetDefault("session.path", confDir)
	v.SetDefault("session.key", "user")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("devapi.address", ":5000")
	v.SetDefault("devapi.secretKey", "x9$k2-lqo)w7e!+3=dz&uzmb4(h!p)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("devapi.tokenTTL", 24*time.Hour)
	v.SetDefault("devapi.shutdownTimeout", 5*time.Second)
	v.SetDefault("email.defaultFrom", "Classdesk <no-reply@classdesk.local>")
	v.SetDefault("email.sendgridAPIKey", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(confDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.baseURL"), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Session: SessionConfig{
			Store: strings.ToLower(v.GetString("session.store")),
			Path:  v.GetString("session.path"),
			Key:   v.GetString("session.key"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		DevAPI: DevAPIConfig{
			Address:         v.GetString("devapi.address"),
			SecretKey:       v.GetString("devapi.secretKey"),
			TokenTTL:        v.GetDuration("devapi.tokenTTL"),
			ShutdownTimeout: v.GetDuration("devapi.shutdownTimeout"),
		},
	}
	from, err := mail.ParseAddress(v.GetString("email.defaultFrom"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing email.defaultFrom")
	}
	conf.Email = EmailConfig{DefaultFrom: *from, SendgridAPIKey: v.GetString("email.sendgridAPIKey")}

	if conf.API.Timeout <= 0 {
		return nil, errors.Errorf("api.timeout must be positive (got %s)", conf.API.Timeout)
	}
	return conf, nil
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "classdesk")
}
