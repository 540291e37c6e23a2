package models

// Requests for the signals HTTP endpoints. Defined in domain for consistency
// and reuse.

type SignalsRequest struct {
	Limit         int `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=20"`
	MinConfidence int `query:"min_confidence" json:"min_confidence" default:"70" validate:"gte=0,lte=98"`
}

type ChartRequest struct {
	ID   string `query:"id" json:"id" validate:"required"`
	Days int    `query:"days" json:"days" default:"30" validate:"oneof=30 90"`
}
