// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// データベースドライバ
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite (既定) / postgres
	URL    string `mapstructure:"url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json / text
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type AppConfig struct {
	TotalProgramDays       int           `mapstructure:"total_program_days"`
	SeedNewUser            bool          `mapstructure:"seed_new_user"`
	ExPartnerName          string        `mapstructure:"ex_partner_name"`
	IntegrityCheckInterval time.Duration `mapstructure:"integrity_check_interval"`
	MilestoneCheckInterval time.Duration `mapstructure:"milestone_check_interval"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// NotifyConfig は節目通知の送信方法です。to が空ならログ出力のみ
type NotifyConfig struct {
	Mailer string     `mapstructure:"mailer"` // log / smtp / ses
	From   string     `mapstructure:"from"`
	To     string     `mapstructure:"to"`
	SMTP   SMTPConfig `mapstructure:"smtp"`
	SES    SESConfig  `mapstructure:"ses"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"` // iam_role / static_credentials
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	App      AppConfig      `mapstructure:"app"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

// LoadConfig は path と "." から config.yaml を読み込み、APP_ 接頭辞の環境変数で上書きします。
// 設定ファイルが無い場合は既定値と環境変数だけで動きます。
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP") // 例: APP_DATABASE_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return nil, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", cfg.Server.Port)
	log.Printf("Database Driver: %s", cfg.Database.Driver)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DefaultDatabaseDriver)
	v.SetDefault("database.url", DefaultDatabaseURL)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("app.total_program_days", DefaultTotalProgramDays)
	v.SetDefault("app.seed_new_user", DefaultSeedNewUser)
	v.SetDefault("app.ex_partner_name", "")
	v.SetDefault("app.integrity_check_interval", DefaultIntegrityCheckInterval)
	v.SetDefault("app.milestone_check_interval", DefaultMilestoneCheckInterval)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID"})
	v.SetDefault("cors.max_age", 300)
	v.SetDefault("notify.mailer", DefaultMailer)
	v.SetDefault("notify.from", "")
	v.SetDefault("notify.to", "")
	v.SetDefault("notify.smtp.host", "localhost")
	v.SetDefault("notify.smtp.port", DefaultSMTPPort)
	v.SetDefault("notify.ses.region", DefaultSESRegion)
	v.SetDefault("notify.ses.auth_type", "iam_role")
}

// normalize は不正値を既定値に戻し、扱えない設定はエラーにします
func (c *Config) normalize() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("config: unsupported database.driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
		c.Database.URL = DefaultDatabaseURL
	}
	if c.Server.Port == "" {
		log.Printf("Server port not set, using default '%s'", DefaultServerPort)
		c.Server.Port = DefaultServerPort
	}
	if c.App.TotalProgramDays < 1 {
		log.Printf("App total program days not set or invalid, using default '%d'", DefaultTotalProgramDays)
		c.App.TotalProgramDays = DefaultTotalProgramDays
	}
	if c.App.IntegrityCheckInterval <= 0 {
		c.App.IntegrityCheckInterval = DefaultIntegrityCheckInterval
	}
	if c.App.MilestoneCheckInterval <= 0 {
		c.App.MilestoneCheckInterval = DefaultMilestoneCheckInterval
	}
	c.Notify.Mailer = strings.ToLower(strings.TrimSpace(c.Notify.Mailer))
	switch c.Notify.Mailer {
	case MailerLog, MailerSMTP, MailerSES:
	case "":
		c.Notify.Mailer = DefaultMailer
	default:
		return fmt.Errorf("config: unsupported notify.mailer %q", c.Notify.Mailer)
	}
	return nil
}
