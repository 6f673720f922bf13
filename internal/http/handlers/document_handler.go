package handlers

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docvault/backend/internal/http/dto"
	"github.com/docvault/backend/internal/middleware"
	"github.com/docvault/backend/internal/models"
	"github.com/docvault/backend/internal/services"
)

type DocumentHandler struct {
	docService *services.DocumentService
	log        *zap.Logger
}

func NewDocumentHandler(docService *services.DocumentService, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{docService: docService, log: log}
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "no file uploaded"})
	}

	var accessIDs []uuid.UUID
	if raw := c.FormValue("access_users"); raw != "" {
		var idStrs []string
		if err := json.Unmarshal([]byte(raw), &idStrs); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid access_users"})
		}
		for _, s := range idStrs {
			id, err := uuid.Parse(s)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id in access_users"})
			}
			accessIDs = append(accessIDs, id)
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cannot read uploaded file"})
	}
	defer f.Close()

	doc, err := h.docService.Upload(c.Context(), middleware.CurrentUser(c), f, services.UploadInput{
		Filename:      fileHeader.Filename,
		Size:          fileHeader.Size,
		Category:      c.FormValue("category"),
		AccessUserIDs: accessIDs,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: doc})
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *DocumentHandler) ListArchived(c *fiber.Ctx) error {
	return h.list(c, true)
}

func (h *DocumentHandler) list(c *fiber.Ctx, archived bool) error {
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
	var category *string
	if v := c.Query("category"); v != "" {
		category = &v
	}

	docs, err := h.docService.List(c.Context(), middleware.CurrentUser(c), archived, category, limit, offset)
	if err != nil {
		h.log.Error("list documents failed", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: docs})
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}

	doc, err := h.docService.Get(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: doc})
}

func (h *DocumentHandler) Archive(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}

	doc, err := h.docService.Archive(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: doc})
}

func (h *DocumentHandler) Restore(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}

	doc, err := h.docService.Restore(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: doc})
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}

	if err := h.docService.Delete(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *DocumentHandler) Share(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}

	var req dto.ShareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	userIDs := make([]uuid.UUID, 0, len(req.UserIDs))
	for _, s := range req.UserIDs {
		uid, err := uuid.Parse(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
		}
		userIDs = append(userIDs, uid)
	}

	doc, err := h.docService.Share(c.Context(), middleware.CurrentUser(c), id, userIDs)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: doc})
}

func (h *DocumentHandler) View(c *fiber.Ctx) error {
	return h.issueURL(c, h.docService.View)
}

func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	return h.issueURL(c, h.docService.Download)
}

func (h *DocumentHandler) issueURL(c *fiber.Ctx, issue func(ctx context.Context, actor *models.User, id uuid.UUID) (string, error)) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid document id"})
	}

	url, err := issue(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.AccessURLResponse{URL: url}})
}
