package config

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/codedrop/codedrop-api/logging"
	"github.com/codedrop/codedrop-api/models"
)

// Config holds the project config values
type Config struct {
	Port    string
	BaseURL string

	// StorageBackend selects the key-value backing: memory, file or mongo
	StorageBackend  string
	StorageFilePath string
	MongoURI        string
	DatabaseName    string
	CollectionName  string

	S3Region       string
	S3BaseEndpoint string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string

	AdminUser         string
	AdminPasswordHash string
	JWTSecret         string
}

// New sets up all config related services
func New() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// setup zap logger and replace default logger
	logger := logging.New(os.Getenv("LOG_ENV"))
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		Port:              envOr("PORT", "8080"),
		BaseURL:           os.Getenv("BASE_URL"),
		StorageBackend:    envOr("STORAGE_BACKEND", "memory"),
		StorageFilePath:   envOr("STORAGE_FILE_PATH", "data/codedrop.json"),
		MongoURI:          os.Getenv("MONGO_URI"),
		DatabaseName:      envOr("MONGO_DB", "codedrop"),
		CollectionName:    envOr("MONGO_COLLECTION", "kv"),
		S3Region:          envOr("S3_REGION", "us-east-1"),
		S3BaseEndpoint:    os.Getenv("S3_BASE_ENDPOINT"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3AccessKey:       os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("S3_SECRET_KEY"),
		AdminUser:         envOr("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	if httpStatusCode >= http.StatusInternalServerError {
		zap.S().With(err).Error(message)
	} else {
		zap.S().Debugw(message, "error", err)
	}
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{Message: message, Error: errText}})
	_, _ = w.Write(b)
}
