package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/http/dto"
	"github.com/docvault/backend/internal/middleware"
	"github.com/docvault/backend/internal/services"
)

type ActivityHandler struct {
	activityLog *services.ActivityLog
	log         *zap.Logger
}

func NewActivityHandler(activityLog *services.ActivityLog, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activityLog: activityLog, log: log}
}

func (h *ActivityHandler) List(c *fiber.Ctx) error {
	limit, offset := 50, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	var documentID *uuid.UUID
	if v := c.Query("document_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document_id"})
		}
		documentID = &id
	}

	activities, err := h.activityLog.List(c.Context(), middleware.CurrentUser(c), documentID, limit, offset)
	if err != nil {
		h.log.Error("list activities failed", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: activities})
}
