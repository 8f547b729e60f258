// cmd/server/main.go
package main

import (
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/cardtable/nuo/internal/auth"
	"github.com/cardtable/nuo/internal/engine"
	"github.com/cardtable/nuo/internal/events"
	"github.com/cardtable/nuo/internal/handlers"
	"github.com/cardtable/nuo/internal/middleware"
	"github.com/cardtable/nuo/internal/nuo"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := auth.Init(); err != nil {
		logger.Fatalf("failed to init session auth: %v", err)
	}

	// The notification sink is advisory: logs always, WebSocket feeds always,
	// Redis only when configured.
	broadcaster := events.NewBroadcaster()
	sink := events.MultiSink{events.LogSink{Log: logger}, broadcaster}
	if os.Getenv("REDIS_ADDR") != "" {
		redisSink, err := events.NewRedisSink(logger)
		if err != nil {
			logger.Warnf("Redis event sink disabled: %v", err)
		} else {
			sink = append(sink, redisSink)
		}
	}

	registry := engine.NewRegistry()
	registry.MustRegister(nuo.NewDefinition(sink))

	dispatcher := engine.NewDispatcher(registry, logger)
	srv := handlers.NewServer(logger, dispatcher, broadcaster)

	mux := http.NewServeMux()
	logged := middleware.LogMiddleware(logger)

	mux.Handle("/api/game", logged(http.HandlerFunc(srv.CreateGameHandler)))
	mux.Handle("/api/join/", logged(http.HandlerFunc(srv.JoinGameHandler)))
	mux.Handle("/api/player/name", logged(http.HandlerFunc(srv.PlayerNameHandler)))

	// Not wrapped: the events sub-path hijacks the connection for WebSocket,
	// which the logging recorder would break.
	mux.Handle("/api/"+nuo.GameType+"/", http.HandlerFunc(srv.GameHandler))

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Infof("nuo server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
