// Package watcher runs the scheduled scan and snapshot tasks.
package watcher

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ipveka/HedgeLab/internal/ledger"
	"github.com/ipveka/HedgeLab/internal/marketdata"
	"github.com/ipveka/HedgeLab/internal/model"
	"github.com/ipveka/HedgeLab/internal/report"
	"github.com/ipveka/HedgeLab/internal/scanner"
	"github.com/ipveka/HedgeLab/internal/store"
)

// Watcher manages all cron tasks.
type Watcher struct {
	Cron        *cron.Cron
	Scanner     *scanner.Scanner
	Provider    *marketdata.Provider
	Ledger      *ledger.Ledger
	Store       store.Store
	Watchlist   []string
	Strategies  []model.Strategy
	MinStrength float64
}

// New creates a Watcher over the given components.
func New(sc *scanner.Scanner, p *marketdata.Provider, l *ledger.Ledger, st store.Store,
	watchlist []string, strategies []model.Strategy, minStrength float64) *Watcher {
	return &Watcher{
		Cron:        cron.New(cron.WithSeconds()),
		Scanner:     sc,
		Provider:    p,
		Ledger:      l,
		Store:       st,
		Watchlist:   watchlist,
		Strategies:  strategies,
		MinStrength: minStrength,
	}
}

// RegisterAll registers the scheduled scan and daily snapshot tasks.
func (w *Watcher) RegisterAll(scanCron, snapshotCron string) error {
	if _, err := w.Cron.AddFunc(scanCron, w.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := w.Cron.AddFunc(snapshotCron, w.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (w *Watcher) Start() {
	w.Cron.Start()
	log.Println("[INFO] watcher started")
}

// Stop stops the cron scheduler gracefully.
func (w *Watcher) Stop() {
	w.Cron.Stop()
	log.Println("[INFO] watcher stopped")
}

// RunScanNow executes the scan task immediately.
func (w *Watcher) RunScanNow() {
	w.scanTask()
}

func (w *Watcher) scanTask() {
	log.Println("[INFO] running scheduled scan")
	for _, strategy := range w.Strategies {
		opps, err := w.Scanner.Scan(strategy, w.Watchlist, w.MinStrength)
		if err != nil {
			log.Printf("[ERROR] %s scan: %v", strategy, err)
			continue
		}
		scanner.SortByStrength(opps)
		log.Print(report.FormatOpportunities(strategy, opps))
		for _, o := range opps {
			if err := w.Store.InsertOpportunity(o); err != nil {
				log.Printf("[ERROR] record opportunity %s: %v", o.Symbol, err)
			}
		}
	}
}

func (w *Watcher) snapshotTask() {
	log.Println("[INFO] recording performance snapshot")
	positions := w.Ledger.Positions()
	prices := make(map[string]float64, len(positions))
	for _, p := range positions {
		price, err := w.Provider.CurrentPrice(p.Symbol)
		if err != nil {
			log.Printf("[WARN] snapshot price %s: %v", p.Symbol, err)
			continue
		}
		prices[p.Symbol] = price
	}

	v := ledger.Value(positions, prices)
	snap := model.PerformanceSnapshot{
		Date:       time.Now().Truncate(24 * time.Hour),
		TotalValue: v.TotalValue,
	}
	if err := w.Store.UpsertSnapshot(snap); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
		return
	}
	log.Printf("[INFO] snapshot recorded: total value %.2f across %d positions",
		v.TotalValue, len(positions))
}
