package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ipveka/HedgeLab/internal/config"
	"github.com/ipveka/HedgeLab/internal/ledger"
	"github.com/ipveka/HedgeLab/internal/marketdata"
	"github.com/ipveka/HedgeLab/internal/scanner"
	"github.com/ipveka/HedgeLab/internal/store"
)

// app wires the configured components together for one command run.
type app struct {
	Config   *config.Config
	Provider *marketdata.Provider
	Store    store.Store
	Ledger   *ledger.Ledger
	Scanner  *scanner.Scanner
}

// newApp loads configuration and builds the component graph. withStore
// controls whether the SQLite database is opened; read-only market commands
// skip it.
func newApp(configPath string, withStore bool) (*app, error) {
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			cfgPath = v
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	var fetcher marketdata.Fetcher
	switch cfg.DataSource.Source {
	case "synthetic":
		fetcher = marketdata.NewSyntheticFetcher()
	default:
		fetcher = marketdata.NewYahooFetcher(cfg.DataSource.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	var fallback marketdata.Fetcher
	if !cfg.DataSource.NoSyntheticFallback {
		fallback = marketdata.NewSyntheticFetcher()
	}

	provider := marketdata.NewProvider(fetcher, marketdata.Options{
		StockTTL:        time.Duration(cfg.Cache.StockTTLMinutes) * time.Minute,
		IndexTTL:        time.Duration(cfg.Cache.IndexTTLMinutes) * time.Minute,
		RateTTL:         time.Duration(cfg.Cache.RateTTLMinutes) * time.Minute,
		MinCallInterval: time.Duration(cfg.Cache.MinCallIntervalMS) * time.Millisecond,
		Fallback:        fallback,
	})

	a := &app{
		Config:   cfg,
		Provider: provider,
		Store:    store.NewNoopStore(),
		Scanner:  scanner.New(provider),
	}

	if withStore {
		st, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.Store = st
	}

	a.Ledger, err = ledger.New(a.Store)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("rebuild ledger: %w", err)
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.Store.Close(); err != nil {
		log.Printf("[WARN] close store: %v", err)
	}
}
