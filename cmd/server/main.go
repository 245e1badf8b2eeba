package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"frontier.rpg/internal/persistence/indexdb"
	"frontier.rpg/internal/sim/account"
	"frontier.rpg/internal/sim/catalog"
	"frontier.rpg/internal/sim/engine"
	"frontier.rpg/internal/sim/market"
	"frontier.rpg/internal/sim/rewards"
	"frontier.rpg/internal/sim/tuning"
	"frontier.rpg/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "rng seed for market rotation and bonus rolls")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite account index")
		adminToken = flag.String("admin_token", "", "token granting the ADMIN command surface (or set RPG_ADMIN_TOKEN; empty disables admin)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	token := strings.TrimSpace(*adminToken)
	if token == "" {
		token = strings.TrimSpace(os.Getenv("RPG_ADMIN_TOKEN"))
	}

	cat, err := catalog.Load(filepath.Join(*configDir, "shop.json"), logger)
	if err != nil {
		logger.Fatalf("load shop catalog: %v", err)
	}
	tables, err := rewards.Load(filepath.Join(*configDir, "rewards.json"), logger)
	if err != nil {
		logger.Fatalf("load reward tables: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}

	store, err := account.NewStore(filepath.Join(*dataDir, "accounts"), tune.StartingMoney, logger)
	if err != nil {
		logger.Fatalf("open account store: %v", err)
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open account index: %v", err)
		}
		defer idx.Close()
		store.SetFlushHook(idx.UpsertAccount)
	}

	eng := engine.New(engine.Config{
		TickRateHz:     tune.TickRateHz,
		DayTicks:       tune.DayTicks,
		SyncEveryTicks: tune.SyncEveryTicks,
		Movement:       tune.Movement,
	}, cat, tables, store, market.New(), *seed, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := eng.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("engine stopped: %v", err)
		}
	}()

	srv := ws.NewServer(eng, token, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		_ = httpSrv.Shutdown(shutCtx)
	}()

	logger.Printf("listening on %s (catalog %s, rewards %s)", *addr, cat.Digest[:12], tables.Digest[:12])
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("serve: %v", err)
	}
	logger.Printf("shutdown complete")
}
