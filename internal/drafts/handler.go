package drafts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/logger"
	ws "github.com/vialuxe/transfer-booking/pkg/websocket"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for raw draft access and the draft
// notification websocket
type Handler struct {
	store    *Store
	hub      *ws.Hub
	upgrader gorilla.Upgrader
}

// NewHandler creates a new drafts handler
func NewHandler(store *Store, hub *ws.Hub) *Handler {
	return &Handler{
		store: store,
		hub:   hub,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func draftIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" || len(id) > 64 {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid draft ID")
		return "", false
	}
	return id, true
}

// GetDraft returns the stored draft
// GET /api/v1/drafts/:id
func (h *Handler) GetDraft(c *gin.Context) {
	id, ok := draftIDParam(c)
	if !ok {
		return
	}

	draft, err := h.store.Load(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrCompleted) {
			common.ErrorResponse(c, http.StatusNotFound, "draft not found")
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load draft")
		return
	}

	common.SuccessResponse(c, draft)
}

// PutDraft stores the full draft body under the given ID
// PUT /api/v1/drafts/:id
func (h *Handler) PutDraft(c *gin.Context) {
	id, ok := draftIDParam(c)
	if !ok {
		return
	}

	// A submitted booking is read-only confirmation state; refuse writes
	// that would make it look resumable again
	if _, err := h.store.Load(c.Request.Context(), id); errors.Is(err, ErrCompleted) {
		common.ErrorResponse(c, http.StatusConflict, "booking already completed")
		return
	}

	var draft ReservationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	draft.ID = id

	if err := h.store.Save(c.Request.Context(), id, &draft); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to save draft")
		return
	}

	common.SuccessResponse(c, &draft)
}

// DeleteDraft removes the stored draft
// DELETE /api/v1/drafts/:id
func (h *Handler) DeleteDraft(c *gin.Context) {
	id, ok := draftIDParam(c)
	if !ok {
		return
	}

	if err := h.store.Clear(c.Request.Context(), id); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to clear draft")
		return
	}

	common.SuccessResponse(c, gin.H{"message": "Draft cleared"})
}

// WatchDraft upgrades to a websocket subscribed to one draft's save events,
// used by the storefront's "resume booking" banner
// GET /api/v1/ws/drafts/:id
func (h *Handler) WatchDraft(c *gin.Context) {
	id, ok := draftIDParam(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(uuid.New().String(), id, conn, h.hub, logger.Get())
	h.hub.Register <- client
	client.Start()
}

// RegisterRoutes registers draft routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/drafts/:id", h.GetDraft)
		api.PUT("/drafts/:id", h.PutDraft)
		api.DELETE("/drafts/:id", h.DeleteDraft)
		api.GET("/ws/drafts/:id", h.WatchDraft)
	}
}
