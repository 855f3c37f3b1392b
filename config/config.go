package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env  string `yaml:"env" env:"ENV" env-default:"development"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	} `yaml:"log"`
	Database struct {
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
	} `yaml:"database"`
	Mongo struct {
		URI        string `yaml:"uri" env:"MONGOURI"`
		Database   string `yaml:"database" env:"MONGODATABASE" env-default:"bookmarket"`
		Collection string `yaml:"collection" env:"MONGOCOLLECTION" env-default:"activities"`
	} `yaml:"mongo"`
	SMTP struct {
		Host     string `yaml:"host" env:"SMTPHOST"`
		Port     int    `yaml:"port" env:"SMTPPORT" env-default:"25"`
		Username string `yaml:"username" env:"SMTPUSERNAME"`
		Password string `yaml:"password" env:"SMTPPASSWORD"`
		Sender   string `yaml:"sender" env:"SMTPSENDER" env-default:"Bookmarket <no-reply@bookmarket.local>"`
	} `yaml:"smtp"`
	S3 struct {
		AccessKeyID     string `yaml:"access_key_id" env:"ACCESSKEYID"`
		SecretAccessKey string `yaml:"secret_access_key" env:"SECRETACCESSKEY"`
		Region          string `yaml:"region" env:"REGION"`
		Bucket          string `yaml:"bucket" env:"BUCKET"`
	} `yaml:"s3"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"BURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS" env-separator:" "`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED" env-default:"true"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"USERNAME"`
		Password string `yaml:"password" env:"PASSWORD"`
	} `yaml:"basic_auth"`
	Retry struct {
		MaxAttempts  int           `yaml:"max_attempts" env:"RETRYMAXATTEMPTS" env-default:"3"`
		BaseDelay    time.Duration `yaml:"base_delay" env:"RETRYBASEDELAY" env-default:"20ms"`
		MaxDelay     time.Duration `yaml:"max_delay" env:"RETRYMAXDELAY" env-default:"500ms"`
		JitterFactor float64       `yaml:"jitter_factor" env:"RETRYJITTER" env-default:"0.2"`
	} `yaml:"retry"`
	OpenLibrary struct {
		BaseURL string `yaml:"base_url" env:"OPENLIBRARYURL" env-default:"https://openlibrary.org"`
	} `yaml:"open_library"`
}

// Decode reads the configuration. Values come from the YAML file at path when it
// exists, overridden by environment variables (a local .env file is loaded first).
func Decode(path string) (Config, error) {
	var cfg Config
	// A missing .env file is not an error.
	_ = godotenv.Load()
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return Config{}, err
			}
			return cfg, nil
		case !errors.Is(err, fs.ErrNotExist):
			return Config{}, err
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
