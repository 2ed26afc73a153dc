package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"snakebnb/internal/app"
)

const (
	devUser     = "default"
	devPassword = "devpassword"
	devDatabase = "default"
)

func main() {
	ctx := context.Background()

	log.Println("Starting ClickHouse testcontainer...")

	clickhouseContainer, err := clickhouse.Run(ctx,
		"clickhouse/clickhouse-server:latest",
		clickhouse.WithUsername(devUser),
		clickhouse.WithPassword(devPassword),
		clickhouse.WithDatabase(devDatabase),
	)
	if err != nil {
		log.Fatalf("Failed to start ClickHouse container: %v", err)
	}

	// Ensure container cleanup on exit
	defer func() {
		log.Println("Stopping ClickHouse container...")
		if err := clickhouseContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate container: %v", err)
		}
	}()

	host, err := clickhouseContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	if err != nil {
		log.Fatalf("Failed to get container port: %v", err)
	}

	log.Printf("ClickHouse started at %s:%s", host, port.Port())

	if err := migrate(host, port.Port()); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	os.Setenv("STORAGE_BACKEND", "clickhouse")
	os.Setenv("CLICKHOUSE_HOST", host)
	os.Setenv("CLICKHOUSE_PORT", port.Port())
	os.Setenv("CLICKHOUSE_DATABASE", devDatabase)
	os.Setenv("CLICKHOUSE_USER", devUser)
	os.Setenv("CLICKHOUSE_PASSWORD", devPassword)
	os.Setenv("CLICKHOUSE_USE_TLS", "false")
	if os.Getenv("LOG_LEVEL") == "" {
		os.Setenv("LOG_LEVEL", "info")
	}

	log.Println("Starting application with ClickHouse backend...")
	fmt.Println()

	application, err := app.New()
	if err != nil {
		log.Printf("Failed to create application: %v", err)
		return
	}

	// Run returns on exit command, closed input or SIGINT/SIGTERM,
	// so the deferred container cleanup always runs
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}

// migrate applies migrations/ to the container database
func migrate(host, port string) error {
	dsn := fmt.Sprintf("clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s",
		devUser, devPassword, host, port, devDatabase)

	db, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.SetDialect("clickhouse"); err != nil {
		return err
	}
	return goose.Up(db, "./migrations")
}
