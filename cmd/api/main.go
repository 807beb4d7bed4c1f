package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FloresRKT/OS-Project/internal/app"
	"github.com/FloresRKT/OS-Project/internal/clock"
	"github.com/FloresRKT/OS-Project/internal/config"
	"github.com/FloresRKT/OS-Project/internal/storage/postgres"
	transporthttp "github.com/FloresRKT/OS-Project/internal/transport/http"
	"github.com/FloresRKT/OS-Project/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()
	cfg := config.Load(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	sysClock := clock.NewSystem()
	rentalRepo := postgres.NewRentalRepository(pool)
	ledger := app.NewOccupancyLedger(rentalRepo)
	rentalSvc := app.NewRentalService(rentalRepo, ledger, sysClock)
	queueRepo := postgres.NewQueueRepository(pool)
	queueSvc := app.NewQueueService(queueRepo, sysClock)
	listingRepo := postgres.NewListingRepository(pool)
	listingSvc := app.NewListingService(listingRepo, sysClock)
	accountRepo := postgres.NewAccountRepository(pool)
	accountSvc := app.NewAccountService(accountRepo, sysClock)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/rents", transporthttp.HandleCreateRental(rentalSvc))
	mux.Handle("/rents/", transporthttp.HandleRental(rentalSvc))
	mux.Handle("/rentals/", transporthttp.HandleRentalTransition(rentalSvc))
	mux.Handle("/user-rentals/", transporthttp.HandleUserRentals(rentalSvc))
	mux.Handle("/queue", transporthttp.HandleJoinQueue(queueSvc))
	mux.Handle("/queue/", transporthttp.HandleQueueEntry(queueSvc))
	mux.Handle("/listings", transporthttp.HandleListings(listingSvc))
	mux.Handle("/listings/", transporthttp.HandleListing(listingSvc, queueSvc))
	mux.Handle("/users", transporthttp.HandleUsers(accountSvc))
	mux.Handle("/users/", transporthttp.HandleUser(accountSvc))
	mux.Handle("/companies", transporthttp.HandleCompanies(accountSvc))
	mux.Handle("/companies/", transporthttp.HandleCompany(accountSvc, listingSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
