package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/datareplica/internal/domain"
	"github.com/andresuchdata/datareplica/internal/handler"
)

// Invoker is the set of operations exposed over HTTP.
type Invoker interface {
	Replicator(ctx context.Context, event events.S3Event) (handler.Response, error)
	Backup(ctx context.Context) (handler.Response, error)
	Seed(ctx context.Context) (handler.Response, error)
	List(ctx context.Context) (handler.Response, error)
}

type InvokeHandler struct {
	invoker Invoker
}

func NewInvokeHandler(invoker Invoker) *InvokeHandler {
	return &InvokeHandler{invoker: invoker}
}

// Replicator accepts an object-created event payload. An empty body is an
// empty batch.
func (h *InvokeHandler) Replicator(c *gin.Context) {
	var event events.S3Event
	if err := c.ShouldBindJSON(&event); err != nil && !errors.Is(err, io.EOF) {
		errorResponse(c, http.StatusBadRequest, "invalid event payload: "+err.Error())
		return
	}

	resp, err := h.invoker.Replicator(c.Request.Context(), event)
	h.respond(c, resp, err)
}

func (h *InvokeHandler) Backup(c *gin.Context) {
	resp, err := h.invoker.Backup(c.Request.Context())
	h.respond(c, resp, err)
}

func (h *InvokeHandler) Seed(c *gin.Context) {
	resp, err := h.invoker.Seed(c.Request.Context())
	h.respond(c, resp, err)
}

func (h *InvokeHandler) List(c *gin.Context) {
	resp, err := h.invoker.List(c.Request.Context())
	h.respond(c, resp, err)
}

func (h *InvokeHandler) respond(c *gin.Context, resp handler.Response, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if domain.IsClientError(err) {
			status = http.StatusBadRequest
		}
		errorResponse(c, status, err.Error())
		return
	}
	c.Data(resp.StatusCode, "application/json; charset=utf-8", []byte(resp.Body))
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Str("path", c.Request.URL.Path).Int("status", statusCode).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
