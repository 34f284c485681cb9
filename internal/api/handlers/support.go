package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/google/uuid"
)

type SupportHandler struct {
	supportService service.SupportService
}

func NewSupportHandler(supportService service.SupportService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

// SubmitMessage godoc
//	@Summary		Send a support message
//	@Description	Open to guests and signed-in users. Submissions are rate limited per sender.
//	@Tags			Support
//	@Accept			json
//	@Produce		json
//	@Param			message	body		object						true	"Message attributes (subject, body, guest_name, guest_email)"
//	@Success		201		{object}	models.SupportMessageView	"Stored message"
//	@Failure		400		{object}	response.ErrorResponse		"Constraint violation"
//	@Failure		429		{object}	response.ErrorResponse		"Too many submissions"
//	@Router			/support/messages [post]
func (h *SupportHandler) SubmitMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var userID *uuid.UUID
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			userID = &claims.UserID
		}

		attrs, ok := utils.ParseAttributes(r, w, logger)
		if !ok {
			return
		}

		message, err := h.supportService.SubmitMessage(r.Context(), userID, attrs)
		if err != nil {
			logger.Warn("Failed to submit support message", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, store.Serialize(message))
	}
}

// ListMessages godoc
//	@Summary	List support messages
//	@Tags		Support
//	@Produce	json
//	@Param		page	query		int															false	"Page number (default: 1)"					minimum(1)
//	@Param		size	query		int															false	"Items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Param		unread	query		bool														false	"Only unread messages"
//	@Success	200		{object}	models.PaginatedResponse{Data=[]models.SupportMessageView}	"Messages, newest first"
//	@Security	BearerAuth
//	@Router		/support/messages [get]
func (h *SupportHandler) ListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, size := utils.PageParams(r, defaultPageSize, maxPageSize)
		unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

		messages, total, err := h.supportService.ListMessages(r.Context(), page, size, unreadOnly)
		if err != nil {
			logger.Error("Failed to list support messages", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     store.SerializeAll(messages),
			Total:    total,
			Page:     page,
			PageSize: size,
		})
	}
}

// MarkRead godoc
//	@Summary	Mark a support message as read
//	@Tags		Support
//	@Produce	json
//	@Param		id	path		string						true	"Message ID (UUID)"	Format(uuid)
//	@Success	200	{object}	models.SupportMessageView	"Updated message"
//	@Failure	404	{object}	response.ErrorResponse		"Message not found"
//	@Security	BearerAuth
//	@Router		/support/messages/{id}/read [patch]
func (h *SupportHandler) MarkRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid message id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		message, err := h.supportService.MarkRead(r.Context(), id)
		if err != nil {
			logger.Error("Failed to mark message read", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store.Serialize(message))
	}
}

// DeleteMessage godoc
//	@Summary	Delete a support message
//	@Tags		Support
//	@Produce	json
//	@Param		id	path		string					true	"Message ID (UUID)"	Format(uuid)
//	@Success	200	{object}	map[string]string		"Deleted"
//	@Failure	404	{object}	response.ErrorResponse	"Message not found"
//	@Security	BearerAuth
//	@Router		/support/messages/{id} [delete]
func (h *SupportHandler) DeleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid message id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.supportService.DeleteMessage(r.Context(), id); err != nil {
			logger.Error("Failed to delete support message", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]string{"id": id.String()})
	}
}
