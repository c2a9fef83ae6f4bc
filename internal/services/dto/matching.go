package dto

// ======================
// Criteria DTO (query params)
// ======================

type NearbySkillsCriteria struct {
	Category      string  `form:"category" validate:"omitempty,is-skill-category"` // Custom rule
	MaxDistanceKm float64 `form:"max_distance_km" validate:"omitempty,min=0,max=500"`
	MinKarma      float64 `form:"min_karma" validate:"omitempty,min=0,max=5"`
	OfferingOnly  bool    `form:"offering_only"`
}

// ======================
// Response DTOs
// ======================

type NearbySkillResult struct {
	SkillID    string  `json:"skill_id"`
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	EffortTime int     `json:"effort_time"`
	IsOffering bool    `json:"is_offering"`
	UserID     string  `json:"user_id"`
	Username   string  `json:"username"`
	KarmaScore float64 `json:"karma_score"`
	Location   string  `json:"location,omitempty"`
	DistanceKm float64 `json:"distance_km"`
}

type NearbySkillsResponse struct {
	Results    []*NearbySkillResult            `json:"results"`
	ByCategory map[string][]*NearbySkillResult `json:"by_category"`
	Total      int                             `json:"total"`
}
