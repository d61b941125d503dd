package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sidekick-ai-be/internal/dto"
	"sidekick-ai-be/internal/pkg/serverutils"
	"sidekick-ai-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("send", c.Send)
	h.Get("history", c.History)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Workspace not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

// History returns the turns of one conversation. Without a workspace_id
// query param it returns the user's no-workspace conversation.
func (c *chatController) History(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var workspaceId *uuid.UUID
	if raw := ctx.Query("workspace_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid workspace_id")
		}
		workspaceId = &parsed
	}

	res, err := c.chatService.GetHistory(ctx.Context(), userId, workspaceId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}
