package dto

import "github.com/hfrat/hfrat-backend/internal/models"

type RegisterResponse struct {
	AccessToken string      `json:"access_token"`
	Role        models.Role `json:"role"`
	FacilityID  *uint       `json:"facility_id"`
	User        models.User `json:"user"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	Role        models.Role `json:"role"`
	FacilityID  *uint       `json:"facility_id"`
}
