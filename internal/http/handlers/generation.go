package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/http/response"
	"github.com/yungbote/slideforge-backend/internal/pipeline/deck"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
	"github.com/yungbote/slideforge-backend/internal/realtime"
	"github.com/yungbote/slideforge-backend/internal/services"
)

type GenerationHandler struct {
	log               *logger.Logger
	generationService services.GenerationService
}

func NewGenerationHandler(log *logger.Logger, generationService services.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		log:               log.With("handler", "GenerationHandler"),
		generationService: generationService,
	}
}

// POST /api/generate-slides
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req services.BatchRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.generationService.Generate(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"presentation": p})
}

// POST /api/generate-slides/stream
//
// Request errors are answered as JSON before the stream opens. Everything
// after that, failures included, is a "data:" frame.
func (h *GenerationHandler) GenerateStream(c *gin.Context) {
	var req services.StreamRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.generationService.ValidateStream(req); err != nil {
		response.RespondAPIError(c, err)
		return
	}

	realtime.SetStreamHeaders(c.Writer)
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	send := func(p deck.Progress) {
		if err := realtime.WriteData(c.Writer, p); err != nil {
			h.log.Debug("Progress write failed", "error", err)
		}
	}
	if _, err := h.generationService.GenerateStream(c.Request.Context(), req, send); err != nil {
		h.log.Warn("Streaming generation ended with error", "error", err)
	}
}
