package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	AMQPURL string `env:"AMQP_URL"`

	AWSRegion     string `env:"AWS_REGION"`
	S3Endpoint    string `env:"S3_ENDPOINT"`
	S3AccessKeyID string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey   string `env:"S3_SECRET_ACCESS_KEY"`

	ImportDir            string `env:"IMPORT_DIR" envDefault:"./imports"`
	ImportWorkers        int    `env:"IMPORT_WORKERS" envDefault:"2"`
	ImportChunkSize      int    `env:"IMPORT_CHUNK_SIZE" envDefault:"500"`
	ImportPollIntervalMS int    `env:"IMPORT_POLL_INTERVAL_MS" envDefault:"1000"`

	LoginRateWindowMinutes int `env:"LOGIN_RATE_WINDOW_MINUTES" envDefault:"10"`
	LoginRateMax           int `env:"LOGIN_RATE_MAX" envDefault:"10"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
