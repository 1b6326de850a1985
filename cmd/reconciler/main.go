package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"colonial_vip/internal/adapters/observability"
	redisad "colonial_vip/internal/adapters/redis"
	"colonial_vip/internal/app"
	"colonial_vip/internal/shared"
	mysqlrepo "colonial_vip/internal/storage/mysql"
)

// The reconciler sweeps every customer and re-runs the points/tier
// recompute. It repairs the staleness a PartialError leaves behind
// (reservation applied, customer not updated) and is safe to run at
// any time since recompute is idempotent.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().Int("workers", cfg.Workers).Msg("reconciler starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	reservations := app.NewReservationService(repo, repo, repo, cache)
	customers := app.NewCustomerService(repo, repo, cache, cfg.CacheTTL)

	ids, err := customers.ListCustomerIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list customers failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var failed int

	var mu sync.Mutex
	for _, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(customerID string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := reservations.ReconcileCustomer(ctx, customerID); err != nil {
				log.Warn().Str("customer", customerID).Err(err).Msg("reconcile failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			log.Debug().Str("customer", customerID).Msg("reconcile ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int("customers", len(ids)).Int("failed", failed).Msg("reconciliation completed")
}
