package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"bookstore-catalog/internal/config"
	"bookstore-catalog/migrations"
	"bookstore-catalog/pkg/logger"
)

// sourceDir - thư mục SQL trên disk, chỉ dùng cho lệnh create
const sourceDir = "migrations"

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}
	logger.Init(os.Getenv("APP_ENV"))

	if *command == "create" {
		if *name == "" {
			fatal("Name is required for 'create' command", nil)
		}
		goose.SetBaseFS(nil)
		if err := goose.Create(nil, sourceDir, *name, "sql"); err != nil {
			fatal("Failed to create migration", err)
		}
		logger.Info("Migration created", map[string]interface{}{"name": *name})
		return
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		fatal("Failed to load database config", err)
	}

	db, err := sql.Open("postgres", dbConfig.DSN())
	if err != nil {
		fatal("Failed to open database", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		fatal("Failed to set goose dialect", err)
	}

	switch *command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		fatal(fmt.Sprintf("Unknown command: %s. Use: up, down, status, create", *command), nil)
	}
	if err != nil {
		fatal("Migration "+*command+" failed", err)
	}
	logger.Info("Migration finished", map[string]interface{}{"command": *command})
}

func fatal(msg string, err error) {
	logger.Error(msg, err)
	os.Exit(1)
}
