package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Env          string
	BaseURL      string
	Server       Server
	Database     Database
	JWTSecret    string
	Stripe       Stripe
	Email        Email
	Storage      Storage
	GeminiApiKey string
}

type Server struct {
	Port           string
	AllowedOrigins []string
}

type Database struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Stripe struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	PriceID        string
}

type Email struct {
	ResendApiKey string
	From         string
}

type Storage struct {
	B2KeyID  string
	B2AppKey string
	B2Bucket string
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "production")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_BASE_URL", "http://localhost:3000")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("EMAIL_FROM", "Kindred <hello@kindred.app>")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	var config Config

	config.Env = v.GetString("APP_ENV")
	config.BaseURL = strings.TrimRight(v.GetString("APP_BASE_URL"), "/")

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))

	config.Database.URL = v.GetString("DATABASE_URL")
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")

	config.JWTSecret = v.GetString("JWT_SECRET")

	config.Stripe.SecretKey = v.GetString("STRIPE_SECRET_KEY")
	config.Stripe.PublishableKey = v.GetString("STRIPE_PUBLISHABLE_KEY")
	config.Stripe.WebhookSecret = v.GetString("STRIPE_WEBHOOK_SECRET")
	config.Stripe.PriceID = v.GetString("STRIPE_PRICE_ID")

	config.Email.ResendApiKey = v.GetString("RESEND_API_KEY")
	config.Email.From = v.GetString("EMAIL_FROM")

	config.Storage.B2KeyID = v.GetString("B2_KEY_ID")
	config.Storage.B2AppKey = v.GetString("B2_APP_KEY")
	config.Storage.B2Bucket = v.GetString("B2_BUCKET")

	config.GeminiApiKey = v.GetString("GEMINI_API_KEY")

	log.Info().
		Str("env", config.Env).
		Str("port", config.Server.Port).
		Str("baseURL", config.BaseURL).
		Bool("stripe", config.Stripe.SecretKey != "").
		Bool("email", config.Email.ResendApiKey != "").
		Bool("storage", config.Storage.B2Bucket != "").
		Bool("gemini", config.GeminiApiKey != "").
		Msg("Config loaded")
	return &config
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
