package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/blastarena/server/pkg/api"
	"github.com/blastarena/server/pkg/game"
	"github.com/blastarena/server/pkg/game/constants"
	"github.com/blastarena/server/pkg/game/levels"
	"github.com/blastarena/server/pkg/log"
	"github.com/blastarena/server/pkg/metrics"
	"github.com/blastarena/server/pkg/network"
	"github.com/blastarena/server/pkg/queue"
	"github.com/blastarena/server/pkg/repositories"
	"github.com/blastarena/server/pkg/version"
	"github.com/blastarena/server/pkg/workers"
)

func main() {
	wsPort := flag.Int("ws-port", 8888, "WebSocket port to listen on")
	apiPort := flag.Int("api-port", 8080, "HTTP API port to listen on")
	debugAddr := flag.String("debug-addr", "127.0.0.1:6060", "Debug server address (metrics and pprof, keep on localhost)")
	logLevel := flag.String("log-level", "info", "Log level")
	certFile := flag.String("cert-file", "", "TLS certificate file")
	keyFile := flag.String("key-file", "", "TLS key file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded: %v", err)
	}

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx := context.Background()

	repository := newRepository(ctx)
	defer repository.Close(ctx)

	levelSource, err := levels.NewJSONSource()
	if err != nil {
		panic(fmt.Sprintf("Failed to load level definitions: %v", err))
	}

	var tlsConfig *network.TLSConfig
	if *certFile != "" && *keyFile != "" {
		tlsConfig = &network.TLSConfig{CertFile: *certFile, KeyFile: *keyFile}
	}

	clientManager := network.NewClientManager()
	messageQueue := queue.NewInMemoryQueue(10000)

	wsServer := network.NewWSServer(network.NewWSServerOptions{
		Port:          *wsPort,
		TLS:           tlsConfig,
		ClientManager: clientManager,
		MessageQueue:  messageQueue,
	})
	go wsServer.Start(ctx)

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:       *apiPort,
		Repository: repository,
	})
	go apiServer.Start()

	go metrics.StartDebugServer(ctx, *debugAddr)

	persistRoomChan := make(chan workers.PersistRoomRequest, 100)
	saveWorker := workers.NewSaveRoomWorker(workers.NewSaveRoomWorkerOptions{
		Repository:      repository,
		PersistRoomChan: persistRoomChan,
	})
	go saveWorker.Start(ctx)

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		ClientManager:    clientManager,
		MessageQueue:     messageQueue,
		LevelSource:      levelSource,
		PersistRoomChan:  persistRoomChan,
		GameLoopInterval: constants.DefaultTickInterval,
	})

	log.Info("Starting game manager")
	if err := gameManager.Start(ctx); err != nil {
		log.Error("Game manager stopped: %v", err)
	}
}

// newRepository selects the persistence backend. DATABASE_URL wins,
// then SQLITE_PATH, then an in-memory fallback for local runs.
func newRepository(ctx context.Context) repositories.Repository {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		repository, err := repositories.NewPostgresRepository(ctx, connStr)
		if err != nil {
			panic(fmt.Sprintf("Failed to connect to postgres: %v", err))
		}
		log.Info("Using postgres repository")
		return repository
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		repository, err := repositories.NewSQLiteRepository(ctx, path)
		if err != nil {
			panic(fmt.Sprintf("Failed to open sqlite database: %v", err))
		}
		log.Info("Using sqlite repository at %s", path)
		return repository
	}
	log.Info("Using in-memory repository")
	return repositories.NewInMemoryRepository()
}
