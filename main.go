package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"trafficchain_go/api"
	"trafficchain_go/blockchain"
	"trafficchain_go/config"
	"trafficchain_go/roadstore"
	"trafficchain_go/traffic"
	"trafficchain_go/utils"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// AppConfig holds all startup configurations
type AppConfig struct {
	Port             int
	NodeID           string
	Difficulty       int
	BlockSize        int
	DataDir          string
	LanesFile        string
	EvalIntervalSecs int
	SimSeed          int64
	Verbose          bool
}

func getEnvInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	valInt, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s: %s. Using default %d.", key, valStr, defaultValue)
		return defaultValue
	}
	return valInt
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func loadConfig() *AppConfig {
	cfg := &AppConfig{}

	// Environment variables supply defaults; CLI flags override them.
	flag.IntVar(&cfg.Port, "port", getEnvInt("API_PORT", 3000), "Port for the HTTP API")
	flag.StringVar(&cfg.NodeID, "node", os.Getenv("NODE_ID"), "Identifier of this ledger node (generated when empty)")
	flag.IntVar(&cfg.Difficulty, "difficulty", getEnvInt("MINING_DIFFICULTY", 2), "Proof-of-work difficulty (leading zero hex characters)")
	flag.IntVar(&cfg.BlockSize, "blocksize", getEnvInt("BLOCK_SIZE", 5), "Pending transactions that trigger automatic mining")
	flag.StringVar(&cfg.DataDir, "datadir", getEnvString("DATA_DIR", "./data"), "Directory for road configuration data")
	flag.StringVar(&cfg.LanesFile, "lanes", os.Getenv("LANES_FILE"), "YAML lane roster (defaults to a four-approach intersection)")
	flag.IntVar(&cfg.EvalIntervalSecs, "interval", getEnvInt("EVAL_INTERVAL_SECS", 2), "Seconds between traffic evaluations")
	flag.BoolVar(&cfg.Verbose, "verbose", os.Getenv("VERBOSE") != "false", "Enable detailed logging")

	seed := flag.Int64("simseed", int64(getEnvInt("SIM_SEED", 42)), "Seed for the simulated vehicle source")
	flag.Parse()
	cfg.SimSeed = *seed

	if cfg.NodeID == "" {
		cfg.NodeID = "node-" + uuid.New().String()
	}
	return cfg
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables and flags")
	}

	cfg := loadConfig()
	utils.SetVerbose(cfg.Verbose)

	lanes, err := config.LoadLanes(cfg.LanesFile)
	if err != nil {
		utils.LogError("Failed to load lane roster: %v", err)
		os.Exit(1)
	}

	roads, err := roadstore.Open(cfg.DataDir)
	if err != nil {
		utils.LogError("Failed to open road store: %v", err)
		os.Exit(1)
	}
	defer roads.Close()
	if err := roads.SeedDefaults(); err != nil {
		utils.LogError("Failed to seed road store: %v", err)
		os.Exit(1)
	}

	chain := blockchain.NewBlockchain(cfg.NodeID, cfg.Difficulty, cfg.BlockSize)
	events := api.NewEventFeed(100)
	chain.SetNotifier(events)

	laneNames := make(map[int]string, len(lanes))
	for _, lane := range lanes {
		laneNames[lane.ID] = lane.Name
	}
	source := traffic.NewSimulatedSource(cfg.SimSeed)
	controller := traffic.NewController(chain, source, cfg.NodeID, laneNames)

	server := api.NewServer(chain, roads, controller, events)
	server.SetupRoutes()

	ctx, cancel := context.WithCancel(context.Background())
	go controller.Run(ctx, time.Duration(cfg.EvalIntervalSecs)*time.Second)

	go func() {
		if err := server.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			utils.LogError("API server failed: %v", err)
			cancel()
		}
	}()

	utils.PrintStartupMessage(cfg.NodeID, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	utils.LogInfo("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Server shutdown error: %v", err)
	}
	utils.LogInfo("Node stopped")
}
