package main

import (
	"flag"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wedfest/ai"
	"wedfest/crud"
	"wedfest/http"
	"wedfest/storage"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a config.yml file is provided before the application starts.")
	flag.Parse()

	// Pretty console logging in dev, plain json in prod.
	if !*productionBool {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	// Load configuration from a config.yml file if present, otherwise use the
	// default dev setup. In production the file is required.
	config, err := LoadConfig(*productionBool)
	must(err)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err = Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Connect to redis for the like leaderboard mirror, if configured.
	var rank *redis.Client
	if config.Redis.Addr != "" {
		rank = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
	}

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithPhoto(rank),
		crud.WithSong(rank),
		crud.WithLike(rank),
		crud.WithComment(),
		crud.WithMessage(),
		crud.WithEvent(),
		crud.WithGame(),
	)
	must(err)

	// Photo files go to local disk, AI features stay dormant without a key.
	files := storage.NewPhotoStorage()
	aiClient := ai.NewClient(config.AI.APIKey, config.AI.Model)

	// Set up a webserver.
	server := http.NewServer(
		config.ClientURL,
		config.AdminPasswordHash,
		config.JWTSecret,
		services,
		files,
		aiClient,
	)

	// Serve the app.
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}
