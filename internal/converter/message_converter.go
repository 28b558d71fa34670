package converter

import (
	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/domain/entity"
)

// MessageToResponse converts a Message entity to its response DTO.
func MessageToResponse(message *entity.Message) *dto.MessageResponse {
	if message == nil {
		return nil
	}

	return &dto.MessageResponse{
		ID:        message.ID,
		Title:     message.Title,
		Content:   message.Content,
		Timestamp: message.Timestamp,
		IsUrgent:  message.IsUrgent,
		Sender:    message.Sender.Username,
	}
}
