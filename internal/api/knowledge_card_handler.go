package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/metanav/internal/api/shared"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/service"
)

// Default page size for card listings and searches.
const defaultCardPageSize = 10

// KnowledgeCardHandler serves /api/knowledge-cards.
type KnowledgeCardHandler struct {
	cards  service.CardService
	logger *slog.Logger
}

// NewKnowledgeCardHandler creates a KnowledgeCardHandler.
func NewKnowledgeCardHandler(cards service.CardService, logger *slog.Logger) *KnowledgeCardHandler {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cards cannot be nil for KnowledgeCardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KnowledgeCardHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "knowledge_card_handler")),
	}
}

// CreateCard handles POST /.
func (h *KnowledgeCardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cards.CreateCard(r.Context(), req.Title, req.Content, req.Keywords)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create knowledge card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// ListCards handles GET /?skip=&limit=.
func (h *KnowledgeCardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := queryInt(r, "limit", defaultCardPageSize)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.cards.ListCards(r.Context(), skip, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list knowledge cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// GetCard handles GET /{id}.
func (h *KnowledgeCardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.cards.GetCard(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get knowledge card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateCard handles PUT /{id}.
func (h *KnowledgeCardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.cards.UpdateCard(r.Context(), id, req.Title, req.Content, req.Keywords)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update knowledge card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /{id}.
func (h *KnowledgeCardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.cards.DeleteCard(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete knowledge card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Knowledge card deleted successfully"})
}

// SearchCards handles GET /search?query=&limit=.
func (h *KnowledgeCardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultCardPageSize)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.cards.SearchCards(r.Context(), r.URL.Query().Get("query"), limit)
	if err != nil {
		HandleAPIError(w, r, err, "Search failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// SearchByKeywords handles POST /search/by-keywords?limit=.
func (h *KnowledgeCardHandler) SearchByKeywords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	limit, err := queryInt(r, "limit", defaultCardPageSize)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req KeywordSearchRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	cards, err := h.cards.SearchByKeywords(r.Context(), req.Keywords, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Search failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}
