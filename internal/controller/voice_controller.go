package controller

import (
	"wevysya-assistant-be/internal/dto"
	"wevysya-assistant-be/internal/pkg/serverutils"
	"wevysya-assistant-be/pkg/assistant/voice"
	"wevysya-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type IVoiceController interface {
	RegisterRoutes(r fiber.Router)
	Toggle(ctx *fiber.Ctx) error
	SubmitText(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type voiceController struct {
	orchestrator *voice.Orchestrator
}

func NewVoiceController(orchestrator *voice.Orchestrator) IVoiceController {
	return &voiceController{
		orchestrator: orchestrator,
	}
}

func (c *voiceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1/voice")
	h.Post(":session_id/toggle", c.Toggle)
	h.Post(":session_id/text", c.SubmitText)
	h.Get(":session_id", c.Show)
}

func (c *voiceController) Toggle(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")

	var req dto.VoiceToggleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	session := c.orchestrator.ToggleListening(ctx.Context(), sessionId, req.UserId)
	return ctx.JSON(serverutils.SuccessResponse("Success toggle listening", toVoiceSessionResponse(session)))
}

func (c *voiceController) SubmitText(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")

	var req dto.VoiceTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	session := c.orchestrator.SubmitText(ctx.Context(), sessionId, req.UserId, req.Text)
	return ctx.JSON(serverutils.SuccessResponse("Success submit text", toVoiceSessionResponse(session)))
}

func (c *voiceController) Show(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")

	session, found := c.orchestrator.Session(sessionId)
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "Voice session not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show voice session", toVoiceSessionResponse(session)))
}

func toVoiceSessionResponse(s *store.VoiceSession) *dto.VoiceSessionResponse {
	return &dto.VoiceSessionResponse{
		SessionId:    s.ID,
		State:        s.State,
		ResponseText: s.ResponseText,
		ErrorText:    s.ErrorText,
		LastQuery:    s.LastQuery,
	}
}
