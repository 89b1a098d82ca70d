package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/api/shared"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/service"
)

// CognitiveMapHandler serves /api/cognitive-map.
type CognitiveMapHandler struct {
	maps   service.CognitiveMapService
	logger *slog.Logger
}

// NewCognitiveMapHandler creates a CognitiveMapHandler.
func NewCognitiveMapHandler(maps service.CognitiveMapService, logger *slog.Logger) *CognitiveMapHandler {
	if maps == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("maps cannot be nil for CognitiveMapHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CognitiveMapHandler{
		maps:   maps,
		logger: logger.With(slog.String("component", "cognitive_map_handler")),
	}
}

// CreateMap handles POST /.
func (h *CognitiveMapHandler) CreateMap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateMapRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	in := service.CreateMapInput{
		SessionID: uuid.MustParse(req.SessionID),
		Nodes:     nodeInputs(req.Nodes),
		Edges:     edgeInputs(req.Edges),
	}

	m, err := h.maps.CreateMap(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create cognitive map")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, m)
}

// GetMap handles GET /{id}.
func (h *CognitiveMapHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	m, err := h.maps.GetMap(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get cognitive map")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, m)
}

// UpdateMap handles PUT /{id}.
func (h *CognitiveMapHandler) UpdateMap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateMapRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	m, err := h.maps.ReplaceMap(r.Context(), id, nodeInputs(req.Nodes), edgeInputs(req.Edges))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update cognitive map")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, m)
}

// SelectEdge handles POST /{id}/select-edge.
func (h *CognitiveMapHandler) SelectEdge(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	mapID, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SelectEdgeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	sel, err := h.maps.SelectEdge(r.Context(), mapID, uuid.MustParse(req.EdgeID))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to select edge")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SelectEdgeResponse{
		Message:   "Edge selected successfully",
		SessionID: sel.SessionID,
		EdgeID:    sel.Edge.ID,
		SubTasks:  sel.SubTasks,
		NextStep:  sel.NextStep,
	})
}

func nodeInputs(nodes []NodeRequest) []service.NodeInput {
	out := make([]service.NodeInput, len(nodes))
	for i, n := range nodes {
		out[i] = service.NodeInput{Name: n.Name, Description: n.Description, X: n.X, Y: n.Y}
	}
	return out
}

func edgeInputs(edges []EdgeRequest) []service.EdgeInput {
	out := make([]service.EdgeInput, len(edges))
	for i, e := range edges {
		out[i] = service.EdgeInput{
			SourceIndex:      e.SourceIndex,
			TargetIndex:      e.TargetIndex,
			RelationshipType: domain.RelationshipType(e.RelationshipType),
			CustomName:       e.CustomName,
		}
	}
	return out
}
