package dto

import "time"

type LoginRequest struct {
	Password string `json:"password"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AuthStatusResponse struct {
	Authenticated bool       `json:"authenticated"`
	LoginTime     *time.Time `json:"login_time"`
}
