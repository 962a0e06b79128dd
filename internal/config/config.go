package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWT        JWT        `envPrefix:"JWT_"`
	Stripe     Stripe     `envPrefix:"STRIPE_"`
	Expo       Expo       `envPrefix:"EXPO_"`
	Dispatcher Dispatcher `envPrefix:"DISPATCH_"`
}

type Stripe struct {
	BaseApiURL    string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	Currency      string `env:"CURRENCY" envDefault:"usd"`
}

type Expo struct {
	PushURL string `env:"PUSH_URL" envDefault:"https://exp.host/--/api/v2/push/send"`
}

type JWT struct {
	Secret string `env:"SECRET"`
}

// Dispatcher controls the notification outbox worker.
type Dispatcher struct {
	Interval  time.Duration `env:"INTERVAL" envDefault:"15s"`
	BatchSize int           `env:"BATCH_SIZE" envDefault:"50"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
