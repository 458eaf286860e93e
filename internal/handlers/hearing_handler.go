package handlers

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/identity"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HearingHandler serves /api/hearings. Every lookup goes through the
// caller's visible set, so hearings they are not party to are 404s.
type HearingHandler struct {
	hearings *services.HearingService
}

func NewHearingHandler(hearings *services.HearingService) *HearingHandler {
	return &HearingHandler{hearings: hearings}
}

func (h *HearingHandler) List(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	list, err := h.hearings.List(c.UserContext(), userID, services.HearingFilter{
		Status:     c.Query("status"),
		CaseNumber: c.Query("case_number"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewHearingList(list))
}

func (h *HearingHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var in dto.HearingInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	hearing, err := h.hearings.Create(c.UserContext(), userID, &in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewHearingSummary(hearing))
}

func (h *HearingHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id", services.ErrHearingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	hearing, err := h.hearings.GetDetail(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewHearingDetail(hearing))
}

func (h *HearingHandler) Replace(c *fiber.Ctx) error {
	return h.write(c, h.hearings.Replace)
}

func (h *HearingHandler) Patch(c *fiber.Ctx) error {
	return h.write(c, h.hearings.Patch)
}

type hearingWriteFunc func(ctx context.Context, userID, id uuid.UUID, in *dto.HearingInput) (*models.Hearing, error)

func (h *HearingHandler) write(c *fiber.Ctx, fn hearingWriteFunc) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id", services.ErrHearingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	var in dto.HearingInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	hearing, err := fn(c.UserContext(), userID, id, &in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewHearingSummary(hearing))
}

func (h *HearingHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id", services.ErrHearingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.hearings.Delete(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Updates lists every update on one hearing, newest first.
func (h *HearingHandler) Updates(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id", services.ErrHearingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	updates, err := h.hearings.Updates(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUpdateList(updates))
}

func (h *HearingHandler) ChangeStatus(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id", services.ErrHearingNotFound)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.ChangeStatusRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return invalidBody(c)
	}

	hearing, err := h.hearings.ChangeStatus(c.UserContext(), userID, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.HearingMessageResponse{
		Message: fmt.Sprintf("Hearing status changed to %s", hearing.Status),
		Hearing: dto.NewHearingSummary(hearing),
	})
}

func (h *HearingHandler) MyHearings(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respondError(c, err)
	}

	all, asAdvocate, asClient, err := h.hearings.MyHearings(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MyHearingsResponse{
		TotalCount: len(all),
		Hearings:   dto.NewHearingList(all),
		AsAdvocate: dto.NewHearingList(asAdvocate),
		AsClient:   dto.NewHearingList(asClient),
	})
}
