package handler

import (
	"github.com/labstack/echo/v4"

	"takasa/internal/usecase"
	"takasa/pkg/response"
)

type RequestHandler struct {
	requestUseCase *usecase.RequestUseCase
}

func NewRequestHandler(requestUseCase *usecase.RequestUseCase) *RequestHandler {
	return &RequestHandler{
		requestUseCase: requestUseCase,
	}
}

type createRequestRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type updateRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// CreateRequest files a request to acquire a listing
func (h *RequestHandler) CreateRequest(c echo.Context) error {
	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	request, err := h.requestUseCase.CreateRequest(c.Request().Context(), userID, usecase.CreateRequestInput{
		ListingID: req.ListingID,
		Message:   req.Message,
	})

	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, request)
}

// ListRequests returns the user's outbound or inbound requests depending on
// the role query param
func (h *RequestHandler) ListRequests(c echo.Context) error {
	userID := c.Get("uid").(string)
	role := c.QueryParam("role")

	requests, err := h.requestUseCase.ListRequests(c.Request().Context(), role, userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

// UpdateRequestStatus approves or rejects a request
func (h *RequestHandler) UpdateRequestStatus(c echo.Context) error {
	requestID := c.Param("id")

	var req updateRequestStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	request, err := h.requestUseCase.UpdateRequestStatus(c.Request().Context(), userID, requestID, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}
