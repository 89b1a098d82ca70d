package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/metanav/internal/api/shared"
	"github.com/phrazzld/metanav/internal/keyword"
	"github.com/phrazzld/metanav/internal/platform/logger"
)

// Extraction modes accepted by /api/keywords/extract.
const (
	ModeKeywords = "keywords"
	ModeWeighted = "weighted"
	ModePhrases  = "phrases"
)

// KeywordExtractor is the part of keyword.Extractor the handler uses.
type KeywordExtractor interface {
	Extract(text string, limit int) []string
	ExtractWeighted(text string, limit int) []keyword.Weighted
	ExtractPhrases(text string, limit int) []string
}

var _ KeywordExtractor = (*keyword.Extractor)(nil)

// KeywordHandler serves /api/keywords.
type KeywordHandler struct {
	extractor KeywordExtractor
	logger    *slog.Logger
}

// NewKeywordHandler creates a KeywordHandler.
func NewKeywordHandler(extractor KeywordExtractor, logger *slog.Logger) *KeywordHandler {
	if extractor == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("extractor cannot be nil for KeywordHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KeywordHandler{
		extractor: extractor,
		logger:    logger.With(slog.String("component", "keyword_handler")),
	}
}

// Extract handles POST /extract. A zero max_keywords uses the extractor's
// default for the mode.
func (h *KeywordHandler) Extract(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ExtractKeywordsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	resp := ExtractKeywordsResponse{Mode: req.Mode}
	switch req.Mode {
	case ModeWeighted:
		terms := h.extractor.ExtractWeighted(req.Text, req.MaxKeywords)
		resp.Weighted = make([]WeightedKeyword, len(terms))
		for i, t := range terms {
			resp.Weighted[i] = WeightedKeyword{Keyword: t.Term, Weight: t.Weight}
		}
	case ModePhrases:
		resp.Keywords = h.extractor.ExtractPhrases(req.Text, req.MaxKeywords)
	default:
		resp.Mode = ModeKeywords
		resp.Keywords = h.extractor.Extract(req.Text, req.MaxKeywords)
	}

	log.Debug("keywords extracted", slog.String("mode", resp.Mode))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "OK"})
}
