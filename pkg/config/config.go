package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/jhoicas/projectdesk-api/pkg/vat"
)

// Drivers de almacenamiento aceptados en STORE_DRIVER.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreFile     = "file"
	StoreMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (leída con Viper desde env y un .env opcional).
type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Store   StoreConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	AI      AIConfig
	Billing BillingConfig
	Admin   AdminConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StoreConfig elige dónde viven los blobs de proyecto.
type StoreConfig struct {
	Driver string // postgres | redis | file | memory
	Dir    string // directorio base del driver file
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL está definido se usa tal cual como cadena de conexión.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve DATABASE_URL si existe; si no, DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN arma una URL postgres escapando caracteres especiales de la contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig configuración del driver redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig configuración de tokens.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AIConfig elige y configura el proveedor de resúmenes de reuniones.
// Las claves se quedan en el servidor; se entregan al adaptador al construirlo.
type AIConfig struct {
	Provider        string // anthropic | gemini | openai
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	TimeoutSeconds  int
}

// BillingConfig configuración de presentación y exportación.
type BillingConfig struct {
	Currency   string // ISO 4217, p. ej. SAR
	Locale     string // BCP 47, p. ej. en-SA
	SellerName string
	SellerVAT  string
}

// AdminConfig cuenta inicial que se crea al arrancar si no existe un usuario con ese email.
type AdminConfig struct {
	Email    string
	Password string
}

// Load lee la configuración de variables de entorno (y opcionalmente de .env / config.env).
// Las variables de entorno ganan sobre los valores del archivo.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // opcional

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "projectdesk"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", StoreFile)),
			Dir:    getString(v, "STORE_DIR", "./data/projects"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "projectdesk"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "projectdesk"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(getString(v, "AI_PROVIDER", "anthropic")),
			AnthropicAPIKey: getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
			GeminiAPIKey:    getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:     getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey:    getString(v, "OPENAI_API_KEY", ""),
			OpenAIModel:     getString(v, "OPENAI_MODEL", "gpt-4o-mini"),
			TimeoutSeconds:  getInt(v, "AI_TIMEOUT_SECONDS", 30),
		},
		Billing: BillingConfig{
			Currency:   getString(v, "CURRENCY", "SAR"),
			Locale:     getString(v, "LOCALE", "en"),
			SellerName: getString(v, "SELLER_NAME", ""),
			SellerVAT:  getString(v, "SELLER_VAT", ""),
		},
		Admin: AdminConfig{
			Email:    getString(v, "ADMIN_EMAIL", ""),
			Password: getString(v, "ADMIN_PASSWORD", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StorePostgres, StoreRedis, StoreFile, StoreMemory:
	default:
		return fmt.Errorf("config: STORE_DRIVER %q not supported", c.Store.Driver)
	}
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET is required in production")
	}
	if c.Billing.SellerVAT != "" {
		if err := vat.Validate(c.Billing.SellerVAT); err != nil {
			return fmt.Errorf("config: SELLER_VAT: %w", err)
		}
		c.Billing.SellerVAT = vat.Normalize(c.Billing.SellerVAT)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}
