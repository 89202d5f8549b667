package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmelojr/Diagnos/internal/api"
	"github.com/dmelojr/Diagnos/internal/middleware"
	"github.com/dmelojr/Diagnos/internal/utils"
)

func main() {
	_ = godotenv.Load()

	addr := os.Getenv("DIAGNOS_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	commit := os.Getenv("DIAGNOS_COMMIT")
	buildTime := os.Getenv("DIAGNOS_BUILD_TIME")

	store, closeStore, err := openStore()
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()

	mux := http.NewServeMux()
	// API routes
	api.NewRouter(store).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Diagnos API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	// Outermost first: CORS so even rejected requests carry the headers,
	// then security headers, API cache suppression, locale, and token parsing.
	handler := middleware.CORS(
		middleware.SecureHeaders(
			middleware.PrivateNoStore(
				middleware.LocaleMiddleware(
					middleware.WithAuth(mux)))))

	log.Printf("Diagnos server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
