package dto

// ======================
// Request DTOs
// ======================

type UpdateProfileRequest struct {
	FullName        *string `json:"full_name,omitempty" validate:"omitempty,max=120"`
	Bio             *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	ProfileImageURL *string `json:"profile_image_url,omitempty" validate:"omitempty,url,max=500"`
}

type UpdateLocationRequest struct {
	Location  string   `json:"location" validate:"required,max=255"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

// ======================
// Response DTOs
// ======================

type ProfileResponse struct {
	UserID          string   `json:"user_id"`
	Username        string   `json:"username"`
	FullName        string   `json:"full_name"`
	Bio             string   `json:"bio"`
	Location        string   `json:"location"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	ProfileImageURL string   `json:"profile_image_url,omitempty"`
	KarmaScore      float64  `json:"karma_score"`
	IsVerified      bool     `json:"is_verified"`
}

type LocationResponse struct {
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Geocoded  bool     `json:"geocoded"`
}
