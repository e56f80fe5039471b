package responses

import "virem-service/internal/pkg/exceptions"

type ResponseDTO struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponseDTO struct {
	exceptions.CustomError
	Data interface{} `json:"data,omitempty"`
}
