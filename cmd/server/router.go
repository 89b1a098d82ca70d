package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/metanav/internal/api"
	apimw "github.com/phrazzld/metanav/internal/api/middleware"
)

// setupRouter registers every route on a chi router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimw.Trace(app.logger))

	sessions := api.NewSessionHandler(app.sessionService, app.logger)
	maps := api.NewCognitiveMapHandler(app.mapService, app.logger)
	cards := api.NewKnowledgeCardHandler(app.cardService, app.logger)
	keywords := api.NewKeywordHandler(app.extractor, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/learning-flow", func(r chi.Router) {
			r.Post("/sessions", sessions.CreateSession)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/", sessions.GetSession)
				r.Put("/flow-state", sessions.UpdateFlowState)
				r.Post("/sub-tasks", sessions.ReplaceSubTasks)
				r.Post("/jol-assessment", sessions.SubmitJOL)
				r.Post("/fok-assessment", sessions.SubmitFOK)
				r.Post("/confidence-assessment", sessions.SubmitConfidence)
				r.Post("/time-allocation", sessions.SubmitTimeAllocation)
				r.Post("/obstacle-assessment", sessions.SubmitObstacle)
				r.Post("/generate-subtasks", sessions.GenerateSubtasks)
			})
			r.Post("/subtasks/contextual", sessions.ContextualSubtasks)
		})

		r.Route("/cognitive-map", func(r chi.Router) {
			r.Post("/", maps.CreateMap)
			r.Get("/{id}", maps.GetMap)
			r.Put("/{id}", maps.UpdateMap)
			r.Post("/{id}/select-edge", maps.SelectEdge)
		})

		r.Route("/knowledge-cards", func(r chi.Router) {
			r.Post("/", cards.CreateCard)
			r.Get("/", cards.ListCards)
			r.Get("/search", cards.SearchCards)
			r.Post("/search/by-keywords", cards.SearchByKeywords)
			r.Get("/{id}", cards.GetCard)
			r.Put("/{id}", cards.UpdateCard)
			r.Delete("/{id}", cards.DeleteCard)
		})

		r.Post("/keywords/extract", keywords.Extract)
	})

	r.Get("/health", api.Health)

	return r
}
