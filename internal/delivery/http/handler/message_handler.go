package handler

import (
	"errors"
	"net/http"

	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/delivery/http/middleware"
	"clinic-inventory/internal/session"
	"clinic-inventory/internal/usecase"
	"clinic-inventory/pkg/response"
	"clinic-inventory/pkg/validator"
)

type MessageHandler struct {
	messageUsecase usecase.MessageUsecase
	validator      *validator.CustomValidator
	sessions       *session.Service
}

func NewMessageHandler(messageUsecase usecase.MessageUsecase, validator *validator.CustomValidator, sessions *session.Service) *MessageHandler {
	return &MessageHandler{
		messageUsecase: messageUsecase,
		validator:      validator,
		sessions:       sessions,
	}
}

// List returns every message newest first, plus any pending notices.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messageUsecase.GetAll(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list messages")
		return
	}

	response.Success(w, http.StatusOK, "Messages retrieved successfully", dto.MessageListResponse{
		Messages: messages,
		Notices:  drainFlashes(r, h.sessions),
	})
}

// AddForm serves the new-message entry point.
func (h *MessageHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Send a message.", nil)
}

// Add creates a message from the posted form. The urgency flag follows HTML
// checkbox semantics: present means set.
func (h *MessageHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.FormError(w, "Invalid form data", nil)
		return
	}

	req := dto.MessageRequest{
		Title:    r.PostFormValue("title"),
		Content:  r.PostFormValue("content"),
		IsUrgent: r.PostForm.Has("is_urgent"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if _, err := h.messageUsecase.Create(r.Context(), &req, user.ID); err != nil {
		response.FormError(w, "Error sending message", nil)
		return
	}

	flash(r, h.sessions, "Message sent successfully!")
	http.Redirect(w, r, "/messages", http.StatusSeeOther)
}

// Delete removes the message if the caller is allowed to. Both outcomes are
// reported as a notice on the list view.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		flash(r, h.sessions, "Error deleting message: invalid message ID")
		http.Redirect(w, r, "/messages", http.StatusFound)
		return
	}

	user, _ := middleware.GetUserFromContext(r.Context())

	if err := h.messageUsecase.Delete(r.Context(), id, user); err != nil {
		switch {
		case errors.Is(err, usecase.ErrDeleteNotAllowed):
			flash(r, h.sessions, "You are not authorized to delete this message")
		default:
			flash(r, h.sessions, "Error deleting message: "+err.Error())
		}
	} else {
		flash(r, h.sessions, "Message deleted successfully!")
	}

	http.Redirect(w, r, "/messages", http.StatusFound)
}
