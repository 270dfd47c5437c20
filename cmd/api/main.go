package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-sql-driver/mysql"

	"github.com/isitmyturn/isitmyturn/internal/api"
	"github.com/isitmyturn/isitmyturn/internal/janitor"
	"github.com/isitmyturn/isitmyturn/pkg/session"
	"github.com/isitmyturn/isitmyturn/pkg/utils"
)

// Start the API server
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	// Create store
	store := newStore(cfg)

	// Start the janitor when enabled
	if pruner, ok := store.(session.Pruner); ok {
		if j := janitor.New(cfg, pruner); j != nil {
			if err := j.Start(); err != nil {
				log.Fatal("[API-MAIN]: Failed to start janitor: ", err)
			}
			defer j.Stop()
		}
	}

	// Start
	api.Start(cfg, store)
}

// newStore connects to MySQL when configured, otherwise falls back to the
// in-memory store
func newStore(cfg *utils.Config) session.Store {
	dbConfig := mysql.Config{
		User:      cfg.Get("MYSQL_USER"),
		Passwd:    cfg.Get("MYSQL_ROOT_PASSWORD"),
		Net:       "tcp",
		Addr:      fmt.Sprintf("%s:%s", cfg.Get("MYSQL_HOST"), cfg.Get("MYSQL_PORT")),
		DBName:    cfg.Get("MYSQL_DATABASE"),
		ParseTime: true,
	}

	if dbConfig.DBName == "" {
		log.Println("[API-MAIN]: Warning, MYSQL_DATABASE not set, using in-memory store (data will not persist across restarts)")
		return session.NewInMemoryStore()
	}

	store, err := session.NewMySqlStore(dbConfig.FormatDSN())
	if err != nil {
		log.Fatal("[API-MAIN]: Failed to connect to database: ", err)
	}
	return store
}
