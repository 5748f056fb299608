// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"floatbridge/internal/auth"
	"floatbridge/internal/handlers"
	"floatbridge/internal/history"
	"floatbridge/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Round archiving is optional: without redis the engine runs fine and
	// completed rounds are simply not persisted.
	pub, err := history.NewPublisher(logger)
	if err != nil {
		logger.Warnf("round archiving disabled: %v", err)
		pub = nil
	}

	srv := handlers.NewServer(logger, pub)

	mux := http.NewServeMux()

	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomWSHandler(logger, srv),
	)))
	mux.Handle("/rooms", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ListRoomsHandler(srv),
	)))
	mux.HandleFunc("/healthz", handlers.HealthHandler())

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
