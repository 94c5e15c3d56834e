package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func (c *controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(c.corsMw())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", c.health)
		r.Route("/episodes/{season}/{episode}", func(r chi.Router) {
			r.Get("/", c.getEpisode)
			r.Get("/scene", c.resolveScene)
		})
		r.Get("/sync/{season}/{episode}", c.getSyncState)
		r.Post("/catalog/reload", c.reloadCatalog)
	})

	r.Route("/ws", func(r chi.Router) {
		r.Get("/player/{season}/{episode}", c.connectPlayer)
		r.Get("/display/{season}/{episode}", c.connectDisplay)
	})

	r.Get("/videos/{file}", c.serveVideo)
	if c.dataDir != "" {
		r.Handle("/data/*", http.StripPrefix("/data/", http.FileServer(http.Dir(c.dataDir))))
	}

	return r
}

func (c *controller) corsMw() func(http.Handler) http.Handler {
	origins := c.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler
}
