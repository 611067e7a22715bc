package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"takasa/internal/usecase"
	"takasa/pkg/response"
	"takasa/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startChatRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

type sendMessageRequest struct {
	Text     string `json:"text"`
	Type     string `json:"type" validate:"omitempty,oneof=text image location"`
	MediaURL string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// StartChat opens (or returns) the chat for a listing and the caller
func (h *ChatHandler) StartChat(c echo.Context) error {
	var req startChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.StartChat(c.Request().Context(), userID, req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

// ListUserChats returns the authenticated user's chats
func (h *ChatHandler) ListUserChats(c echo.Context) error {
	userID := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	chats, total, err := h.chatUseCase.ListUserChats(c.Request().Context(), userID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, chats, total, params.Page, params.PageSize)
}

// SendMessage appends a message to a chat
func (h *ChatHandler) SendMessage(c echo.Context) error {
	chatID := c.Param("id")
	userID := c.Get("uid").(string)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ChatID:   chatID,
		Text:     req.Text,
		Type:     req.Type,
		MediaURL: req.MediaURL,
	})

	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// GetChatMessages returns a chat's messages, oldest first
func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	chatID := c.Param("id")
	userID := c.Get("uid").(string)

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	messages, err := h.chatUseCase.GetChatMessages(c.Request().Context(), userID, chatID, limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// GetMessageStorageInfo reports where a message body is stored
func (h *ChatHandler) GetMessageStorageInfo(c echo.Context) error {
	chatID := c.Param("id")
	messageID := c.Param("messageId")
	userID := c.Get("uid").(string)

	info, err := h.chatUseCase.GetMessageStorageInfo(c.Request().Context(), userID, chatID, messageID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, info)
}
