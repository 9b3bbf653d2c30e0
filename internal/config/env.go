package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	MySQLDSN string

	MongoURI string
	MongoDB  string

	KafkaBrokers string
	KafkaTopic   string

	JWTSecret       string
	BootstrapSecret string
}

func LoadEnv() Env {
	return Env{
		AppAddr: getenv("APP_ADDR", ":8080"),
		GinMode: getenv("GIN_MODE", ""),

		MySQLDSN: getenv("MYSQL_DSN",
			"root:@tcp(127.0.0.1:3306)/cabline?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"),

		MongoURI: getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGO_DB", "cabline"),

		KafkaBrokers: getenv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:   getenv("KAFKA_TOPIC", "booking.status-events"),

		JWTSecret:       getenv("JWT_SECRET", "super-secret-key-change-me"),
		BootstrapSecret: getenv("STAFF_BOOTSTRAP_SECRET", ""),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
