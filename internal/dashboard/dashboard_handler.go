package dashboard

import (
	"net/http"

	"go-perf/internal/shared/apperror"
	"go-perf/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Stats(c *gin.Context) {
	resp, err := h.service.Stats(c.Request.Context(), c.Query("cycle_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RatingDistribution(c *gin.Context) {
	resp, err := h.service.RatingDistribution(c.Request.Context(), c.Query("cycle_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DepartmentPerformance(c *gin.Context) {
	resp, err := h.service.DepartmentPerformance(c.Request.Context(), c.Query("cycle_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) PendingActions(c *gin.Context) {
	resp, err := h.service.PendingActions(c.Request.Context(), c.GetString("user_id"), c.GetString("role"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
