package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"clubadmin/club/media"
	"clubadmin/club/schema"
	"clubadmin/club/services"
	"clubadmin/club/storage"
	"clubadmin/utils/logging"

	"github.com/caarlos0/env/v10"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type clubAdminEnv struct {
	DatabaseUri string `env:"DATABASE_URI,required"`
	ShareDir    string `env:"SHARE_DIR,required"`

	// LocalStorage switches uploads to a directory under ShareDir, for dev
	// setups without a bucket.
	LocalStorage    bool   `env:"LOCAL_STORAGE" envDefault:"false"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION"`
	AwsAccessKey    string `env:"AWS_ACCESS_KEY"`
	AwsAccessSecret string `env:"AWS_ACCESS_SECRET"`

	FfmpegPath string `env:"FFMPEG_PATH"`

	PublicOrigin  string `env:"PUBLIC_ORIGIN" envDefault:"*"`
	PublicFileUrl string `env:"PUBLIC_FILE_URL" envDefault:"/files"`
}

/**
 * ==========================================================================
 * ==== All variables used by the club admin server are loaded here so   ====
 * ==== that a user can see what is exposed and how the values propagate ====
 * ==== through the system.                                              ====
 * ==========================================================================
 */
func loadEnv() clubAdminEnv {
	cfg := clubAdminEnv{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error loading environment variables: %v", err)
	}

	if !cfg.LocalStorage && (cfg.S3Bucket == "" || cfg.S3Region == "") {
		log.Fatal("S3_BUCKET and S3_REGION must be specified unless LOCAL_STORAGE is enabled")
	}

	return cfg
}

func loadEnvFile(envFile string) {
	slog.Info(fmt.Sprintf("loading env from file %v", envFile))
	err := godotenv.Load(envFile)
	if err != nil {
		log.Fatalf("error loading .env file '%v': %v", envFile, err)
	}
}

func initLogging(logFile *os.File) {
	log.SetFlags(log.Lshortfile | log.Ltime | log.Ldate)
	log.SetOutput(io.MultiWriter(logFile, os.Stderr))
	logging.InitLogging(logFile, "clubadmin")
}

func postgresDsn(databaseUri string) string {
	parts, err := url.Parse(databaseUri)
	if err != nil {
		log.Fatalf("error parsing db uri: %v", err)
	}
	pwd, _ := parts.User.Password()
	dbname := strings.TrimPrefix(parts.Path, "/")
	return fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v", parts.Hostname(), parts.User.Username(), pwd, dbname, parts.Port())
}

func initDb(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("error opening database connection: %v", err)
	}

	err = db.AutoMigrate(schema.AllModels()...)
	if err != nil {
		log.Fatalf("error migrating db schema: %v", err)
	}

	return db
}

func initStorage(env clubAdminEnv) storage.ObjectStore {
	if env.LocalStorage {
		return storage.NewLocalDisk(filepath.Join(env.ShareDir, "uploads"), env.PublicFileUrl)
	}

	store, err := storage.NewS3Store(storage.S3Args{
		Region:    env.S3Region,
		Bucket:    env.S3Bucket,
		AccessKey: env.AwsAccessKey,
		SecretKey: env.AwsAccessSecret,
	})
	if err != nil {
		log.Fatalf("error creating s3 object store: %v", err)
	}
	return store
}

func main() {
	envFile := flag.String("env", "", "File to load env variables from. If not specified will just load them from the environment variables already defined.")
	port := flag.Int("port", 8000, "Port to run server on")

	flag.Parse()

	if *envFile != "" {
		loadEnvFile(*envFile)
	}
	env := loadEnv()

	err := os.MkdirAll(filepath.Join(env.ShareDir, "logs/"), 0777)
	if err != nil {
		log.Fatalf("error creating log dir: %v", err)
	}

	logFile, err := os.OpenFile(filepath.Join(env.ShareDir, "logs/clubadmin.log"), os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer logFile.Close()

	initLogging(logFile)

	db := initDb(postgresDsn(env.DatabaseUri))
	store := initStorage(env)
	extractor := media.NewFfmpegExtractor(env.FfmpegPath)

	clubAdmin := services.NewClubAdmin(db, store, extractor)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{env.PublicOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Mount("/api", clubAdmin.Routes())
	r.Handle("/metrics", promhttp.Handler())

	if localStore, ok := store.(*storage.LocalDiskStore); ok {
		fileServer := http.StripPrefix(env.PublicFileUrl, http.FileServer(http.Dir(localStore.Location())))
		r.Handle(env.PublicFileUrl+"/*", fileServer)
	}

	slog.Info("starting server", "code", logging.SYSTEM, "port", *port)
	err = http.ListenAndServe(fmt.Sprintf(":%d", *port), r)
	if err != nil {
		log.Fatalf("listen and serve returned error: %v", err.Error())
	}
}
