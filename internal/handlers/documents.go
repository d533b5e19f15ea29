package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/chronidx/chronidx/internal/identity"
	"github.com/chronidx/chronidx/internal/models"
	"github.com/chronidx/chronidx/internal/store"
	"github.com/chronidx/chronidx/internal/utils"
)

// WriteDocument handles POST /v1/collections/:collection/documents
func (h *Handler) WriteDocument(c *fiber.Ctx) error {
	collection := c.Params("collection")

	repo, err := h.repo(collection)
	if err != nil {
		return badRequest(c, "INVALID_COLLECTION", err.Error())
	}

	var doc map[string]any
	if err := json.Unmarshal(c.Body(), &doc); err != nil {
		return badRequest(c, "INVALID_BODY", "Request body must be a JSON object")
	}
	if doc == nil {
		return badRequest(c, "INVALID_BODY", "Request body must not be null")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.StoreWriteTimeout)
	defer cancel()

	saved, err := repo.Save(ctx, doc)
	if err != nil {
		if errors.Is(err, identity.ErrIncompleteIdentity) {
			return badRequest(c, "INCOMPLETE_IDENTITY", err.Error())
		}
		h.logger.Error("Failed to write document",
			"collection", collection,
			"error", err)
		return internalError(c, "Failed to write document")
	}

	return c.Status(fiber.StatusCreated).JSON(models.WriteResponse{
		Collection: collection,
		Index:      saved.Index,
		ID:         saved.ID,
		Routing:    saved.Routing,
		Generated:  saved.Generated,
	})
}

// GetDocument handles GET /v1/collections/:collection/documents/:id
func (h *Handler) GetDocument(c *fiber.Ctx) error {
	collection := c.Params("collection")
	id := c.Params("id")

	repo, err := h.repo(collection)
	if err != nil {
		return badRequest(c, "INVALID_COLLECTION", err.Error())
	}

	doc, err := repo.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "NOT_FOUND",
					Message: "Document not found",
					Details: map[string]interface{}{"collection": collection, "id": id},
				},
			})
		}
		h.logger.Error("Failed to read document",
			"collection", collection,
			"id", id,
			"error", err)
		return internalError(c, "Failed to read document")
	}

	return c.JSON(documentView(doc))
}

// DeleteDocument handles DELETE /v1/collections/:collection/documents/:id
func (h *Handler) DeleteDocument(c *fiber.Ctx) error {
	collection := c.Params("collection")
	id := c.Params("id")

	repo, err := h.repo(collection)
	if err != nil {
		return badRequest(c, "INVALID_COLLECTION", err.Error())
	}

	if err := repo.Delete(c.UserContext(), id); err != nil {
		h.logger.Error("Failed to delete document",
			"collection", collection,
			"id", id,
			"error", err)
		return internalError(c, "Failed to delete document")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// documentView converts a stored document into its response form. Bodies
// that fail to decode are surfaced raw under "_raw".
func documentView(doc *store.Document) models.DocumentResponse {
	var body map[string]any
	if err := json.Unmarshal(doc.Body, &body); err != nil {
		body = map[string]any{"_raw": string(doc.Body)}
	}
	return models.DocumentResponse{
		Index:    doc.Index,
		ID:       doc.ID,
		Routing:  doc.Routing,
		Document: body,
	}
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: message},
	})
}
