package converter

import (
	"clinic-inventory/internal/delivery/dto"
	"clinic-inventory/internal/domain/entity"
)

// UserToResponse converts a User entity to its response DTO.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
