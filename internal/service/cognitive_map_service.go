package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/store"
)

// NodeInput describes a node to create. Its ID is assigned by the service.
type NodeInput struct {
	Name        string
	Description string
	X, Y        float64
}

// EdgeInput connects two nodes by their index in the accompanying node list.
type EdgeInput struct {
	SourceIndex      int
	TargetIndex      int
	RelationshipType domain.RelationshipType
	CustomName       string
}

// CreateMapInput is everything needed to draw a session's cognitive map.
type CreateMapInput struct {
	SessionID uuid.UUID
	Nodes     []NodeInput
	Edges     []EdgeInput
}

// EdgeSelection is the outcome of choosing an edge to study.
type EdgeSelection struct {
	SessionID uuid.UUID
	Edge      domain.CognitiveEdge
	SubTasks  []domain.SubTask
	NextStep  domain.Step
}

// CognitiveMapService manages cognitive maps and edge selection.
type CognitiveMapService interface {
	// CreateMap stores the map and links it to its session in one
	// transaction.
	CreateMap(ctx context.Context, in CreateMapInput) (*domain.CognitiveMap, error)

	GetMap(ctx context.Context, id uuid.UUID) (*domain.CognitiveMap, error)

	// ReplaceMap redraws an existing map: its nodes and edges are deleted
	// and recreated from the input in one transaction. Node and edge IDs
	// change, so a previously selected edge no longer resolves on the map.
	ReplaceMap(ctx context.Context, mapID uuid.UUID, nodes []NodeInput, edges []EdgeInput) (*domain.CognitiveMap, error)

	// SelectEdge records the edge on the map's session and stores the
	// sub-task plan for it in one session update.
	SelectEdge(ctx context.Context, mapID, edgeID uuid.UUID) (*EdgeSelection, error)
}

type cognitiveMapService struct {
	db       *sql.DB
	maps     store.CognitiveMapStore
	sessions store.SessionStore
	engine   FlowEngine
	logger   *slog.Logger
}

const mapServiceName = "cognitive_map"

// NewCognitiveMapService creates a CognitiveMapService. db may be nil, in
// which case CreateMap writes through the stores without a transaction.
func NewCognitiveMapService(
	db *sql.DB,
	maps store.CognitiveMapStore,
	sessions store.SessionStore,
	engine FlowEngine,
	logger *slog.Logger,
) (CognitiveMapService, error) {
	if maps == nil {
		return nil, domain.NewValidationError("maps", "cannot be nil", domain.ErrValidation)
	}
	if sessions == nil {
		return nil, domain.NewValidationError("sessions", "cannot be nil", domain.ErrValidation)
	}
	if engine == nil {
		return nil, domain.NewValidationError("engine", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cognitiveMapService{
		db:       db,
		maps:     maps,
		sessions: sessions,
		engine:   engine,
		logger:   logger.With(slog.String("component", "cognitive_map_service")),
	}, nil
}

func (s *cognitiveMapService) CreateMap(ctx context.Context, in CreateMapInput) (*domain.CognitiveMap, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if in.SessionID == uuid.Nil {
		return nil, domain.NewValidationError("session_id", "is required", domain.ErrInvalidID)
	}
	m, err := buildMap(in.SessionID, in.Nodes, in.Edges)
	if err != nil {
		return nil, err
	}

	write := func(ctx context.Context, maps store.CognitiveMapStore, sessions store.SessionStore) error {
		if _, err := sessions.GetByID(ctx, in.SessionID); err != nil {
			return err
		}
		if err := maps.Create(ctx, m); err != nil {
			return err
		}
		_, err := sessions.Update(ctx, in.SessionID, func(*domain.LearningSession) (*store.SessionMutation, error) {
			return &store.SessionMutation{CognitiveMapID: &m.ID}, nil
		})
		return err
	}

	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return write(ctx, s.maps.WithTx(tx), s.sessions.WithTx(tx))
		})
	} else {
		err = write(ctx, s.maps, s.sessions)
	}
	if err != nil {
		log.Error("failed to create cognitive map",
			slog.String("session_id", in.SessionID.String()),
			slog.String("error", err.Error()))
		return nil, wrapError(mapServiceName, "create_map", "failed to save cognitive map", err)
	}

	log.Info("cognitive map created",
		slog.String("map_id", m.ID.String()),
		slog.String("session_id", in.SessionID.String()))
	return m, nil
}

func (s *cognitiveMapService) GetMap(ctx context.Context, id uuid.UUID) (*domain.CognitiveMap, error) {
	m, err := s.maps.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError(mapServiceName, "get_map", "failed to load cognitive map", err)
	}
	return m, nil
}

func (s *cognitiveMapService) ReplaceMap(
	ctx context.Context,
	mapID uuid.UUID,
	nodes []NodeInput,
	edges []EdgeInput,
) (*domain.CognitiveMap, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	current, err := s.maps.GetByID(ctx, mapID)
	if err != nil {
		return nil, wrapError(mapServiceName, "replace_map", "failed to load cognitive map", err)
	}

	m, err := buildMap(current.SessionID, nodes, edges)
	if err != nil {
		return nil, err
	}
	m.ID = current.ID
	m.CreatedAt = current.CreatedAt

	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return s.maps.WithTx(tx).Replace(ctx, m)
		})
	} else {
		err = s.maps.Replace(ctx, m)
	}
	if err != nil {
		log.Error("failed to replace cognitive map",
			slog.String("map_id", mapID.String()),
			slog.String("error", err.Error()))
		return nil, wrapError(mapServiceName, "replace_map", "failed to save cognitive map", err)
	}

	log.Info("cognitive map replaced",
		slog.String("map_id", m.ID.String()),
		slog.Int("node_count", len(m.Nodes)),
		slog.Int("edge_count", len(m.Edges)))
	return m, nil
}

func (s *cognitiveMapService) SelectEdge(ctx context.Context, mapID, edgeID uuid.UUID) (*EdgeSelection, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	m, err := s.maps.GetByID(ctx, mapID)
	if err != nil {
		return nil, wrapError(mapServiceName, "select_edge", "failed to load cognitive map", err)
	}

	edge, ok := m.Edge(edgeID)
	if !ok {
		return nil, ErrEdgeNotFound
	}
	source, srcOK := m.Node(edge.SourceID)
	target, tgtOK := m.Node(edge.TargetID)
	if !srcOK || !tgtOK {
		return nil, &ServiceError{
			Service:   mapServiceName,
			Operation: "select_edge",
			Message:   fmt.Sprintf("edge %s references a missing node", edgeID),
		}
	}

	tasks, next, err := s.engine.SelectEdge(ctx, m.SessionID, edge.ID, source.Name, target.Name, edge.RelationshipType)
	if err != nil {
		return nil, wrapError(mapServiceName, "select_edge", "failed to record selected edge", err)
	}

	log.Info("edge selected",
		slog.String("map_id", mapID.String()),
		slog.String("edge_id", edgeID.String()),
		slog.Int("sub_task_count", len(tasks)))

	return &EdgeSelection{
		SessionID: m.SessionID,
		Edge:      edge,
		SubTasks:  tasks,
		NextStep:  next,
	}, nil
}

// buildMap assigns IDs, resolves edge indexes and validates the result.
func buildMap(sessionID uuid.UUID, nodes []NodeInput, edges []EdgeInput) (*domain.CognitiveMap, error) {
	m := &domain.CognitiveMap{
		ID:        uuid.New(),
		SessionID: sessionID,
		Nodes:     make([]domain.CognitiveNode, len(nodes)),
		Edges:     make([]domain.CognitiveEdge, len(edges)),
		CreatedAt: time.Now().UTC(),
	}

	for i, n := range nodes {
		m.Nodes[i] = domain.CognitiveNode{
			ID:          uuid.New(),
			Name:        strings.TrimSpace(n.Name),
			Description: n.Description,
			X:           n.X,
			Y:           n.Y,
		}
	}

	for i, e := range edges {
		for _, idx := range []int{e.SourceIndex, e.TargetIndex} {
			if idx < 0 || idx >= len(m.Nodes) {
				return nil, domain.NewValidationError(
					fmt.Sprintf("edges[%d]", i),
					fmt.Sprintf("node index %d is out of range", idx),
					domain.ErrEdgeNodeMissing,
				)
			}
		}
		m.Edges[i] = domain.CognitiveEdge{
			ID:               uuid.New(),
			SourceID:         m.Nodes[e.SourceIndex].ID,
			TargetID:         m.Nodes[e.TargetIndex].ID,
			RelationshipType: e.RelationshipType,
			CustomName:       strings.TrimSpace(e.CustomName),
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
