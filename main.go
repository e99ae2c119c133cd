package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"seabattle/internal/game"
	"seabattle/internal/handlers"
	"seabattle/internal/logging"
	"seabattle/internal/storage"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":8080", "listen address")
	baseURL := flag.String("base-url", "http://localhost:8080", "public base URL used in QR join links")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres DSN for the persistence mirror (optional)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()
	logging.Debug = *debug

	var store *storage.Store
	if *dsn != "" {
		db, err := storage.New(*dsn)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		store = storage.NewStore(db)
	}

	hub := game.NewHub(store)
	h := handlers.NewHandler(hub, store, *baseURL)

	http.HandleFunc("/create", handlers.WithLogging(h.HandleCreate))
	http.HandleFunc("/join/", handlers.WithLogging(h.HandleJoin))
	http.HandleFunc("/move/", handlers.WithLogging(h.HandleMove))
	http.HandleFunc("/poll/", handlers.WithLogging(h.HandlePoll))
	http.HandleFunc("/end/", handlers.WithLogging(h.HandleEnd))
	http.HandleFunc("/qr/", handlers.WithLogging(h.HandleQR))
	http.HandleFunc("/history/", handlers.WithLogging(h.HandleHistory))
	http.HandleFunc("/stats", handlers.WithLogging(h.HandleStats))

	log.Printf("Sea Battle %s (%s) listening on %s …", commit, buildDate, *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
