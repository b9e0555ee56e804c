package dto

import "github.com/hfrat/hfrat-backend/internal/models"

type UsersResponse struct {
	Users []models.User `json:"users"`
}

type UserResponse struct {
	User models.User `json:"user"`
}

type FacilitiesResponse struct {
	Facilities []models.Facility `json:"facilities"`
}

type FacilityResponse struct {
	Facility models.Facility `json:"facility"`
}
