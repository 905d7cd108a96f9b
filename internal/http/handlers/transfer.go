package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/http/response"
	"github.com/yungbote/slideforge-backend/internal/services"
)

type TransferHandler struct {
	transferService services.TransferService
}

func NewTransferHandler(transferService services.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// POST /api/transfer-demo-data
func (h *TransferHandler) TransferDemoData(c *gin.Context) {
	var req struct {
		DemoUserID string `json:"demo_user_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.transferService.TransferDemoData(c.Request.Context(), req.DemoUserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":       true,
		"message":       "Demo data transferred successfully",
		"presentations": res.Presentations,
		"prompts":       res.Prompts,
	})
}
