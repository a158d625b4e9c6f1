package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"cardtable-server/internal/config"
	"cardtable-server/internal/mux"
	"cardtable-server/internal/server"
	"cardtable-server/pkg/table"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address (overrides the configuration)")

func main() {
	flag.Parse()

	// a .env file is optional
	_ = godotenv.Load()

	setupLogger()

	cfg := config.Instance()

	listenAddr := cfg.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	hub := table.NewHub(cfg.Server.MailboxSize)
	lobby := table.NewLobby()
	intake := table.NewIntake()
	session := table.NewSession(hub, lobby, intake, table.Options{
		MinPlayers:   cfg.Game.MinPlayers,
		LowWaterMark: cfg.Game.LowWaterMark,
		PollInterval: cfg.PollInterval(),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go session.Run(ctx)

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		logrus.WithError(err).WithField("addr", listenAddr).Fatal("could not listen")
	}

	srv := server.New(hub, lobby, intake, session, server.Options{
		StartingBalance: cfg.Game.StartingBalance,
		NameLimit:       cfg.Server.NameLimit,
	})

	go func() {
		if err := srv.Serve(ctx, listener); err != nil {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet},
	})

	httpSrv := &http.Server{
		Addr:         cfg.StatusAddr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, session, hub))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithFields(logrus.Fields{
		"addr":       listenAddr,
		"statusAddr": cfg.StatusAddr,
	}).Info("listening")

	logrus.Fatal(httpSrv.ListenAndServe())
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
