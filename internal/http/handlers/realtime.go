package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/slideforge-backend/internal/http/response"
	"github.com/yungbote/slideforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/realtime"
)

type RealtimeHandler struct {
	Log *logger.Logger
	Hub *realtime.SSEHub

	mu      sync.Mutex
	clients map[uuid.UUID]*realtime.SSEClient // key: session id
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		Log:     log.With("handler", "RealtimeHandler"),
		Hub:     hub,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// SSEStream subscribes the caller to its user channel until the request ends.
// A second stream for the same session replaces the first.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("Unauthorized"))
		return
	}
	sessionID := rd.SessionID
	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}

	h.mu.Lock()
	if existing, ok := h.clients[sessionID]; ok {
		h.Hub.CloseClient(existing)
		delete(h.clients, sessionID)
	}
	client := h.Hub.NewSSEClient(rd.UserID)
	client.Logger = h.Log.With("sse_client_id", client.ID)
	h.clients[sessionID] = client
	h.mu.Unlock()

	h.Hub.AddChannel(client, realtime.UserChannel(rd.UserID))
	h.Log.Debug("SSE stream open", "user_id", rd.UserID, "session_id", sessionID)

	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	if h.clients[sessionID] == client {
		delete(h.clients, sessionID)
		h.Hub.CloseClient(client)
	}
	h.mu.Unlock()
}
