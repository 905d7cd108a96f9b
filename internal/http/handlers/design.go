package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/slideforge-backend/internal/http/response"
	"github.com/yungbote/slideforge-backend/internal/services"
)

type DesignHandler struct {
	designService services.DesignService
}

func NewDesignHandler(designService services.DesignService) *DesignHandler {
	return &DesignHandler{designService: designService}
}

// GET /api/design/images?q=&per_page=
func (h *DesignHandler) SearchImages(c *gin.Context) {
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	photos, err := h.designService.SearchImages(c.Request.Context(), c.Query("q"), perPage)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, photos)
}

// POST /api/design/blob?format=svg|png
func (h *DesignHandler) Blob(c *gin.Context) {
	var req services.BlobRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req) {
			return
		}
	}
	if c.Query("format") == "png" {
		png, err := h.designService.BlobPNG(c.Request.Context(), req)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", png)
		return
	}
	res, err := h.designService.Blob(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"svg": res.SVG, "seed": res.Params.Seed})
}

// GET /api/design/gradient?style=
func (h *DesignHandler) Gradient(c *gin.Context) {
	response.RespondOK(c, h.designService.Gradient(c.Request.Context(), c.Query("style")))
}
