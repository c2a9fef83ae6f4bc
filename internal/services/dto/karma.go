package dto

import "time"

// ======================
// Response DTOs
// ======================

type KarmaResponse struct {
	UserID     string    `json:"user_id"`
	KarmaScore float64   `json:"karma_score"`
	ComputedAt time.Time `json:"computed_at"`
	FromCache  bool      `json:"from_cache"`
}

type KarmaBreakdownResponse struct {
	UserID         string  `json:"user_id"`
	KarmaScore     float64 `json:"karma_score"`
	WeightedRating float64 `json:"weighted_rating"`
	CompletionRate float64 `json:"completion_rate"`
	Consistency    float64 `json:"consistency"`
	ActivityLevel  float64 `json:"activity_level"`
}

type KarmaRecomputeResponse struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}
