// Package api serves the liveness endpoint some hosts poll to keep the
// process warm. No business data crosses this boundary.
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/maelvns/pointeuse/internal/config"
)

type API struct {
	router *mux.Router
	config *config.Config
}

func New(cfg *config.Config) *API {
	api := &API{
		router: mux.NewRouter(),
		config: cfg,
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	a.router.HandleFunc("/", a.handleRoot).Methods("GET")
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	log.Println("[PING] Serveur ping reçu")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Bot en ligne")
}

func (a *API) Start() error {
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}).Handler(a.router)

	log.Printf("🌐 Serveur ping actif sur %s", a.config.WebBind)
	return http.ListenAndServe(a.config.WebBind, handler)
}
