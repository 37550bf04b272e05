package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/billed-app/billed/internal/store"
	"github.com/billed-app/billed/internal/web"
	"github.com/billed-app/billed/pkg/logging"
)

func main() {
	logging.Setup()

	fs := ff.NewFlagSet("billed-web")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		storeURL      = fs.StringLong("store-url", "", "Bill store API base URL (empty runs offline/demo mode)")
		storeUser     = fs.StringLong("store-user", "", "Bill store basic auth username (optional)")
		storePass     = fs.StringLong("store-pass", "", "Bill store basic auth password (optional)")
		sessionSecret = fs.StringLong("session-secret", "", "Session cookie signing secret")
		sessionTTL    = fs.DurationLong("session-ttl", 12*time.Hour, "Session cookie lifetime")
		employeeEmail = fs.StringLong("employee-email", "employee@test.tld", "Identity issued when no session cookie is present")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("BILLED"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *sessionSecret == "" {
		slog.Error("Session secret is required. Set --session-secret flag or BILLED_SESSION_SECRET environment variable")
		os.Exit(1)
	}

	var billStore *store.HTTPStore
	if *storeURL == "" {
		slog.Warn("No store URL configured, running in offline/demo mode")
	} else {
		opts := []store.Option{}
		if *storeUser != "" || *storePass != "" {
			opts = append(opts, store.WithBasicAuth(*storeUser, *storePass))
		}
		billStore = store.NewHTTP(*storeURL, opts...)
		slog.Info("Using remote bill store", "url", *storeURL)
	}

	server := web.NewServer(web.Config{
		Store:    billStore,
		Sessions: web.NewSessionManager([]byte(*sessionSecret), *sessionTTL),
		DefaultSession: web.Session{
			Type:  "Employee",
			Email: *employeeEmail,
		},
	})

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Employee portal started", "address", fmt.Sprintf("http://localhost%s", addr))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
