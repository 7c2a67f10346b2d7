package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/app/progress"
	"github.com/yigit/gradplanner/internal/app/services"
	"github.com/yigit/gradplanner/internal/middleware"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
)

// RecordSubscriber delivers the latest records of a user after every change
type RecordSubscriber interface {
	Subscribe(ctx context.Context, userID string, onChange services.SnapshotFunc) (func(), error)
}

// SnapshotBuilder computes stats over records already loaded
type SnapshotBuilder interface {
	Snapshot(records []models.CourseRecord, curriculumID string) (*models.Stats, error)
}

// CurriculumResolver maps the requested curriculum to a known one
type CurriculumResolver interface {
	ResolveCurriculum(id string) (*models.CurriculumDefinition, error)
}

// Handler for WebSocket connections
type Handler struct {
	hub       *Hub
	records   RecordSubscriber
	snapshots SnapshotBuilder
	curricula CurriculumResolver
	upgrader  websocket.Upgrader
	logger    zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(
	hub *Hub,
	records RecordSubscriber,
	snapshots SnapshotBuilder,
	curricula CurriculumResolver,
	allowedOrigins []string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		hub:       hub,
		records:   records,
		snapshots: snapshots,
		curricula: curricula,
		upgrader:  newUpgrader(allowedOrigins),
		logger:    logger.With().Str("component", "live").Logger(),
	}
}

// HandleConnection godoc
// @Summary Stream live progress
// @Description Upgrades to a WebSocket that receives a progress.snapshot frame on connect and after every change to the user's records
// @Tags live
// @Produce json
// @Security BearerAuth
// @Param curriculum query string false "Curriculum ID, defaults to the configured curriculum"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Unknown curriculum"
// @Router /live [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrTokenInvalid)
		return
	}

	curriculum, err := h.curricula.ResolveCurriculum(c.Query("curriculum"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered the request
		h.logger.Error().
			Err(err).
			Str("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := newClient(h.hub, conn, userID, curriculum.ID, h.logger)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	// The request context ends with this handler, the subscription must
	// outlive it
	unsubscribe, err := h.records.Subscribe(context.Background(), userID, func(records []models.CourseRecord) {
		h.push(client, records)
	})
	if err != nil {
		h.logger.Error().Err(err).Str("userID", userID).Msg("Failed to subscribe to record changes")
		h.hub.Unregister(client)
		conn.Close()
		return
	}
	client.setUnsubscribe(unsubscribe)

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("userID", userID).
		Str("curriculum", curriculum.ID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}

// push computes a snapshot and queues it. A client that cannot keep up is dropped.
func (h *Handler) push(client *Client, records []models.CourseRecord) {
	stats, err := h.snapshots.Snapshot(records, client.curriculumID)
	if err != nil {
		h.logger.Error().Err(err).Str("userID", client.userID).Msg("Failed to compute progress snapshot")
		return
	}

	data, err := json.Marshal(Message{
		Type:         MessageTypeSnapshot,
		CurriculumID: client.curriculumID,
		Stats:        stats,
		AverageGrade: progress.AverageGrade(records),
		RecordCount:  len(records),
		Timestamp:    time.Now(),
	})
	if err != nil {
		h.logger.Error().Err(err).Str("userID", client.userID).Msg("Failed to marshal progress snapshot")
		return
	}

	if !client.enqueue(data) {
		h.logger.Warn().Str("userID", client.userID).Msg("Dropping slow live client")
		h.hub.Unregister(client)
	}
}
