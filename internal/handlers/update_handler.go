package handlers

import (
	"context"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/identity"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UpdateHandler serves /api/updates.
type UpdateHandler struct {
	updates *services.UpdateService
}

func NewUpdateHandler(updates *services.UpdateService) *UpdateHandler {
	return &UpdateHandler{updates: updates}
}

func (h *UpdateHandler) List(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	filter, err := parseUpdateFilter(c)
	if err != nil {
		return respondError(c, err)
	}

	list, err := h.updates.List(c.UserContext(), userID, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUpdateList(list))
}

func parseUpdateFilter(c *fiber.Ctx) (services.UpdateFilter, error) {
	f := services.UpdateFilter{
		UpdateType: c.Query("update_type"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
	}
	if raw := c.Query("hearing"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, &services.ValidationError{Field: "hearing", Message: "Enter a valid UUID."}
		}
		f.Hearing = &id
	}
	if raw := c.Query("is_important"); raw != "" {
		important, err := strconv.ParseBool(raw)
		if err != nil {
			return f, &services.ValidationError{Field: "is_important", Message: "Enter true or false."}
		}
		f.IsImportant = &important
	}
	return f, nil
}

func (h *UpdateHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var in dto.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	update, err := h.updates.Create(c.UserContext(), userID, &in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUpdateResponse(update))
}

func (h *UpdateHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id", services.ErrUpdateNotFound)
	if err != nil {
		return respondError(c, err)
	}

	update, err := h.updates.Get(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUpdateResponse(update))
}

func (h *UpdateHandler) Replace(c *fiber.Ctx) error {
	return h.write(c, h.updates.Replace)
}

func (h *UpdateHandler) Patch(c *fiber.Ctx) error {
	return h.write(c, h.updates.Patch)
}

type updateWriteFunc func(ctx context.Context, userID, id uuid.UUID, in *dto.UpdateInput) (*models.HearingUpdate, error)

func (h *UpdateHandler) write(c *fiber.Ctx, fn updateWriteFunc) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id", services.ErrUpdateNotFound)
	if err != nil {
		return respondError(c, err)
	}

	var in dto.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	update, err := fn(c.UserContext(), userID, id, &in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUpdateResponse(update))
}

func (h *UpdateHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id", services.ErrUpdateNotFound)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.updates.Delete(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HearingUpdates looks the hearing up directly rather than through the
// visible set: a hearing the caller is not party to is 403, not 404.
func (h *UpdateHandler) HearingUpdates(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	raw := c.Query("hearing_id")
	if raw == "" {
		return badRequest(c, "hearing_id parameter is required")
	}
	hearingID, err := uuid.Parse(raw)
	if err != nil {
		return respondError(c, services.ErrHearingNotFound)
	}

	hearing, updates, err := h.updates.ForHearing(c.UserContext(), userID, hearingID)
	if err != nil {
		return respondError(c, err)
	}
	list := dto.NewUpdateList(updates)
	return c.JSON(dto.HearingUpdatesResponse{
		Hearing: dto.NewHearingSummary(hearing),
		Updates: list,
		Count:   len(list),
	})
}

func (h *UpdateHandler) MyUpdates(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	updates, err := h.updates.ByAuthor(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	list := dto.NewUpdateList(updates)
	return c.JSON(dto.MyUpdatesResponse{Count: len(list), Updates: list})
}

func (h *UpdateHandler) MarkImportant(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id", services.ErrUpdateNotFound)
	if err != nil {
		return respondError(c, err)
	}

	update, err := h.updates.MarkImportant(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UpdateMessageResponse{
		Message: "Update marked as important",
		Update:  dto.NewUpdateResponse(update),
	})
}

func (h *UpdateHandler) Visibility(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id", services.ErrUpdateNotFound)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.VisibilityRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return invalidBody(c)
	}

	update, err := h.updates.SetVisibility(c.UserContext(), userID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UpdateMessageResponse{
		Message: "Visibility updated",
		Update:  dto.NewUpdateResponse(update),
	})
}
