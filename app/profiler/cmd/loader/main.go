package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/config"
	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/logger"
	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/storage"
)

const (
	waitAttempts = 30
	waitInterval = 2 * time.Second
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: loader [-conf path] <command>

Commands:
  setup   create tables and load the CSV dataset, unless the database is already populated
  init    create the dataset tables
  load    load the CSV dataset into existing tables
  drop    drop and recreate schema public (asks for confirmation unless -yes)

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flagconf := flag.String("conf", "app/profiler/configs/loader.yaml", "config path, eg: -conf loader.yaml")
	yes := flag.Bool("yes", false, "skip interactive confirmation for drop")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	// 1. 加载配置
	cfg, err := config.LoadConfig(*flagconf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}

	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接数据库: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	switch cmd := flag.Arg(0); cmd {
	case "setup":
		err = setup(ctx, store, cfg)
	case "init":
		err = initSchema(ctx, store)
	case "load":
		err = store.LoadDataset(ctx, cfg.Dataset.Folder)
	case "drop":
		err = drop(ctx, store, cfg, *yes)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Log.Errorf("%s failed: %v", flag.Arg(0), err)
		os.Exit(1)
	}
}

func initSchema(ctx context.Context, store *storage.Storage) error {
	logger.Log.Info("Initializing database schema...")
	if err := store.WaitForPostgres(ctx, waitAttempts, waitInterval); err != nil {
		return err
	}
	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	logger.Log.Info("Database tables created successfully")
	return nil
}

func setup(ctx context.Context, store *storage.Storage, cfg *config.Config) error {
	if err := store.WaitForPostgres(ctx, waitAttempts, waitInterval); err != nil {
		return err
	}

	logger.Log.Info("Checking database status...")
	populated, err := store.IsPopulated(ctx)
	if err != nil {
		logger.Log.Warnf("Could not check if database is populated: %v", err)
	}
	if populated {
		logger.Log.Info("Database already appears to be populated. Aborting setup.")
		return nil
	}

	logger.Log.Info("Step 1: Creating database tables...")
	if err := initSchema(ctx, store); err != nil {
		return err
	}
	logger.Log.Info("Step 2: Loading CSV data...")
	if err := store.LoadDataset(ctx, cfg.Dataset.Folder); err != nil {
		return err
	}
	logger.Log.Info("Database setup completed successfully")
	return nil
}

func drop(ctx context.Context, store *storage.Storage, cfg *config.Config, yes bool) error {
	if !yes {
		logger.Log.Warnf("This will DROP ALL TABLES and objects in schema 'public' of database '%s'.", cfg.DB.Name)
		fmt.Print("Type 'yes' to continue: ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !confirmed(answer) {
			logger.Log.Info("Aborted by user.")
			return nil
		}
	}

	if err := store.WaitForPostgres(ctx, waitAttempts, waitInterval); err != nil {
		return err
	}
	if err := store.DropSchema(ctx); err != nil {
		return err
	}
	logger.Log.Info("Schema 'public' dropped and recreated successfully")
	return nil
}

func confirmed(answer string) bool {
	return strings.ToLower(strings.TrimSpace(answer)) == "yes"
}
