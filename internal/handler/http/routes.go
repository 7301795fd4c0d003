// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))
	if h.timeout > 0 {
		router.Use(middleware.Timeout(h.timeout))
	}

	router.With(h.auth).Post("/user/{appKey}/login", h.login)

	router.Route("/appdata/{appKey}", func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/", h.ping)
		r.Get("/{collection}", h.find)
		r.Post("/{collection}", h.create)
		r.Get("/{collection}/_count", h.count)
		r.Get("/{collection}/_deltaset", h.deltaSet)
		r.Get("/{collection}/{id}", h.findByID)
		r.Put("/{collection}/{id}", h.update)
		r.Delete("/{collection}/{id}", h.deleteByID)
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.notFound)

	return router
}
