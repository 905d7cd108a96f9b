package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/http/response"
	"github.com/yungbote/slideforge-backend/internal/services"
)

type PresentationHandler struct {
	presentationService services.PresentationService
}

func NewPresentationHandler(presentationService services.PresentationService) *PresentationHandler {
	return &PresentationHandler{presentationService: presentationService}
}

// GET /api/presentations
func (h *PresentationHandler) List(c *gin.Context) {
	list, err := h.presentationService.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"presentations": list})
}

// GET /api/presentations/:id
func (h *PresentationHandler) Get(c *gin.Context) {
	p, err := h.presentationService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"presentation": p})
}

// PATCH /api/presentations
func (h *PresentationHandler) Update(c *gin.Context) {
	var req services.PresentationPatch
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.presentationService.Update(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"presentation": p})
}

// DELETE /api/presentations?id=
func (h *PresentationHandler) Delete(c *gin.Context) {
	if err := h.presentationService.Delete(c.Request.Context(), c.Query("id")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// GET /api/presentations/:id/editor?theme=
func (h *PresentationHandler) Editor(c *gin.Context) {
	doc, err := h.presentationService.ExportEditor(c.Request.Context(), c.Param("id"), c.Query("theme"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, doc)
}
