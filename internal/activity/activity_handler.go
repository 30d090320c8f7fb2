package activity

import (
	"net/http"
	"strconv"

	"go-perf/internal/shared/apperror"
	"go-perf/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("activity.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Mine(c *gin.Context) {
	actorID := c.GetString("user_id")

	resp, err := h.service.ByUser(c.Request.Context(), actorID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
