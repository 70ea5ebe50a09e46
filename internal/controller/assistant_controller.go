package controller

import (
	"wevysya-assistant-be/internal/dto"
	"wevysya-assistant-be/internal/pkg/serverutils"
	"wevysya-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Classify(ctx *fiber.Ctx) error
	Execute(ctx *fiber.Ctx) error
	Actions(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Post("classify", c.Classify)
	h.Post("execute", c.Execute)
	h.Get("actions", c.Actions)
}

func (c *assistantController) Classify(ctx *fiber.Ctx) error {
	var req dto.ClassifyIntentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.ClassifyIntent(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success classify intent", res))
}

func (c *assistantController) Execute(ctx *fiber.Ctx) error {
	var req dto.ExecuteActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.ExecuteAction(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success execute action", res))
}

func (c *assistantController) Actions(ctx *fiber.Ctx) error {
	res := c.assistantService.ListActions(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success list actions", res))
}
