package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/model"
)

// response is the envelope every collection endpoint answers with.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type statusBody struct {
	ID     string `json:"id"`
	Status *bool  `json:"status"`
}

type idBody struct {
	ID string `json:"id"`
}

type handlers struct {
	repo   *Repository
	logger zerolog.Logger
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, response{Success: false, Message: message})
}

// list handles GET /api/v1/todo
func (h *handlers) list(c *gin.Context) {
	respondData(c, http.StatusOK, h.repo.List())
}

// create handles POST /api/v1/todo
func (h *handlers) create(c *gin.Context) {
	var d model.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(d.Name) == "" {
		respondError(c, http.StatusBadRequest, "name is required")
		return
	}

	td, err := h.repo.Create(d)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create todo")
		respondError(c, http.StatusInternalServerError, "failed to create todo")
		return
	}
	respondData(c, http.StatusCreated, td)
}

// update handles PUT /api/v1/todo
func (h *handlers) update(c *gin.Context) {
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ID == "" || body.Status == nil {
		respondError(c, http.StatusBadRequest, "id and status are required")
		return
	}

	td, err := h.repo.SetStatus(body.ID, *body.Status)
	if err != nil {
		h.fail(c, "update", body.ID, err)
		return
	}
	respondData(c, http.StatusOK, td)
}

// remove handles DELETE /api/v1/todo
func (h *handlers) remove(c *gin.Context) {
	var body idBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ID == "" {
		respondError(c, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.repo.Delete(body.ID); err != nil {
		h.fail(c, "delete", body.ID, err)
		return
	}
	c.JSON(http.StatusOK, response{Success: true})
}

func (h *handlers) fail(c *gin.Context, op, id string, err error) {
	if errors.Is(err, ErrNotFound) {
		respondError(c, http.StatusNotFound, "todo not found")
		return
	}
	h.logger.Error().Err(err).Str("op", op).Str("id", id).Msg("todo mutation failed")
	respondError(c, http.StatusInternalServerError, "failed to "+op+" todo")
}
