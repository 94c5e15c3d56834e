package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/louismahl/got-companion/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 8080,
		usage:        "Server port",
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
		usage:        "Server host",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	allowedOrigins = configVar[string]{
		envKey:       "SERVER_ALLOWED_ORIGINS",
		flagKey:      "allowed-origins",
		defaultValue: "*",
		usage:        "Comma separated list of allowed origins",
	}
	dataDir = configVar[string]{
		envKey:       "DATA_DIR",
		flagKey:      "data-dir",
		defaultValue: "./data",
		usage:        "Directory holding episodes.json, characters.json and the location mapping",
	}
	dataURL = configVar[string]{
		envKey:       "DATA_URL",
		flagKey:      "data-url",
		defaultValue: "",
		usage:        "Base url to fetch the data documents from, replaces data-dir",
	}
	videoDir = configVar[string]{
		envKey:       "VIDEO_DIR",
		flagKey:      "video-dir",
		defaultValue: "",
		usage:        "Directory holding sXXeYY.mp4 files",
	}
	videoBucket = configVar[string]{
		envKey:       "VIDEO_BUCKET",
		flagKey:      "video-bucket",
		defaultValue: "",
		usage:        "S3 bucket holding sXXeYY.mp4 files",
	}
	videoPrefix = configVar[string]{
		envKey:       "VIDEO_PREFIX",
		flagKey:      "video-prefix",
		defaultValue: "",
		usage:        "Key prefix of videos in the bucket",
	}
	videoURLExpiry = configVar[time.Duration]{
		envKey:       "VIDEO_URL_EXPIRY",
		flagKey:      "video-url-expiry",
		defaultValue: time.Hour,
		usage:        "Lifetime of presigned video urls",
	}
	s3Endpoint = configVar[string]{
		envKey:       "S3_ENDPOINT",
		flagKey:      "s3-endpoint",
		defaultValue: "",
		usage:        "S3 compatible endpoint, empty for AWS",
	}
	s3Region = configVar[string]{
		envKey:       "S3_REGION",
		flagKey:      "s3-region",
		defaultValue: "us-east-1",
		usage:        "S3 region",
	}
	s3AccessKey = configVar[string]{
		envKey:       "S3_ACCESS_KEY",
		flagKey:      "s3-access-key",
		defaultValue: "",
		usage:        "S3 access key",
	}
	s3SecretKey = configVar[string]{
		envKey:       "S3_SECRET_KEY",
		flagKey:      "s3-secret-key",
		defaultValue: "",
		usage:        "S3 secret key",
	}
	syncBackend = configVar[string]{
		envKey:       "SYNC_BACKEND",
		flagKey:      "sync-backend",
		defaultValue: app.SyncBackendRedis,
		usage:        "Playback store: redis or memory",
	}
	syncThrottle = configVar[time.Duration]{
		envKey:       "SYNC_THROTTLE",
		flagKey:      "sync-throttle",
		defaultValue: 250 * time.Millisecond,
		usage:        "Minimum interval between playback writes of one player",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
		usage:        "Redis port",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
		usage:        "Redis host",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
		usage:        "Redis password",
	}
	redisDB = configVar[int]{
		envKey:       "REDIS_DB",
		flagKey:      "redis-db",
		defaultValue: 0,
		usage:        "Redis database",
	}
)

func register[T any](v configVar[T], define func(name string, value T, usage string) *T) {
	define(v.flagKey, v.defaultValue, v.usage)
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}

	return list
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func loadAppConfig() *app.AppConfig {
	for _, v := range []configVar[string]{
		host, logLevel, allowedOrigins, dataDir, dataURL, videoDir, videoBucket, videoPrefix,
		s3Endpoint, s3Region, s3AccessKey, s3SecretKey, syncBackend, redisHost, redisPassword,
	} {
		register(v, pflag.String)
	}
	for _, v := range []configVar[int]{port, redisPort, redisDB} {
		register(v, pflag.Int)
	}
	for _, v := range []configVar[time.Duration]{videoURLExpiry, syncThrottle} {
		register(v, pflag.Duration)
	}
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	config := &app.AppConfig{
		Host:           viper.GetString(host.flagKey),
		Port:           viper.GetInt(port.flagKey),
		LogLevel:       viper.GetString(logLevel.flagKey),
		AllowedOrigins: splitList(viper.GetString(allowedOrigins.flagKey)),
		DataDir:        viper.GetString(dataDir.flagKey),
		DataURL:        viper.GetString(dataURL.flagKey),
		VideoDir:       viper.GetString(videoDir.flagKey),
		VideoBucket:    viper.GetString(videoBucket.flagKey),
		VideoPrefix:    viper.GetString(videoPrefix.flagKey),
		VideoURLExpiry: viper.GetDuration(videoURLExpiry.flagKey),
		S3Endpoint:     viper.GetString(s3Endpoint.flagKey),
		S3Region:       viper.GetString(s3Region.flagKey),
		S3AccessKey:    viper.GetString(s3AccessKey.flagKey),
		S3SecretKey:    viper.GetString(s3SecretKey.flagKey),
		SyncBackend:    viper.GetString(syncBackend.flagKey),
		SyncThrottle:   viper.GetDuration(syncThrottle.flagKey),
		RedisPort:      viper.GetInt(redisPort.flagKey),
		RedisHost:      viper.GetString(redisHost.flagKey),
		RedisPassword:  viper.GetString(redisPassword.flagKey),
		RedisDB:        viper.GetInt(redisDB.flagKey),
	}

	// a data url replaces the default data dir
	if config.DataURL != "" && !pflag.CommandLine.Changed(dataDir.flagKey) && !envSet(dataDir.envKey) {
		config.DataDir = ""
	}

	return config
}

func main() {
	ctx := context.Background()

	// .env is optional, real environment variables take precedence
	godotenv.Load()

	appConfig := loadAppConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
