// Основной пакет сервиса вопросов. Отвечает за чтение конфигурации, подключение к базе данных,
// миграцию моделей и запуск HTTP сервера.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aisa-it/assessment/internal/assessment"
	"github.com/aisa-it/assessment/internal/assessment/config"
	"github.com/aisa-it/assessment/internal/assessment/dao"
	"github.com/aisa-it/assessment/internal/assessment/gormlogger"
)

var version string = "DEV"

// Пример запуска: go run main.go --noMigration --trace
func main() {
	paramQueries := flag.Bool("paramQueries", true, "Mask queries params in log")
	noMigration := flag.Bool("noMigration", false, "Turn off DB migration")
	trace := flag.Bool("trace", false, "Verbose logs and sql trace")
	flag.Parse()

	PrintBanner()

	// Set prod log format
	if version != "DEV" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
	}

	if *trace {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := config.ReadConfig()
	if err != nil {
		slog.Error("Read config", "err", err)
		os.Exit(1)
	}
	dao.PreviewLength = cfg.PreviewLength

	slog.Info("Assessment start.")

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.NewGormLogger(slog.Default(), time.Second*4, *paramQueries),
	})
	if err != nil {
		slog.Error("Fail init DB connection", "err", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Fail set settings to conn pool", "err", err)
		os.Exit(1)
	}
	if cfg.DatabaseDriver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(time.Minute * 15)
	}

	if !*noMigration {
		slog.Info("Migrate models")
		if err := db.AutoMigrate(dao.AllModels()...); err != nil {
			slog.Error("Models migration failed", "err", err)
			os.Exit(1)
		}
	}

	assessment.Server(db, cfg, version)
}

func dialector(cfg *config.Config) gorm.Dialector {
	if cfg.DatabaseDriver == config.DriverPostgres {
		return postgres.Open(cfg.DatabaseDSN)
	}
	return sqlite.Open(cfg.DatabaseDSN)
}

// PrintBanner выводит заголовок приложения с версией.
func PrintBanner() {
	banner := `
    _                                             _
   / \   ___ ___  ___  ___ ___ _ __ ___   ___ _ __ | |_
  / _ \ / __/ __|/ _ \/ __/ __| '_ ' _ \ / _ \ '_ \| __|
 / ___ \\__ \__ \  __/\__ \__ \ | | | | |  __/ | | | |_
/_/   \_\___/___/\___||___/___/_| |_| |_|\___|_| |_|\__| %s
Rich text questions service
----------------------------------------------------
`
	colorReset := "\033[0m"
	colorYellow := "\033[33m"

	formattedVersion := version
	if version == "DEV" {
		formattedVersion = colorYellow + version + colorReset
	}

	fmt.Printf(banner, formattedVersion)
}
