package models

import "github.com/gymmate/gymmate/internal/store"

// ProfileSummary is the header view of the profile.
type ProfileSummary struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ProfileUpdateRequest is a partial profile; omitted fields are left unchanged.
type ProfileUpdateRequest struct {
	Name          *string                `json:"name,omitempty"`
	AvatarURL     *string                `json:"avatar_url,omitempty"`
	Height        *float64               `json:"height,omitempty"`
	Weight        *float64               `json:"weight,omitempty"`
	WeightHistory *[]store.WeightEntry   `json:"weightHistory,omitempty"`
	PRs           *store.PersonalRecords `json:"prs,omitempty"`
}

// WeightProgressPoint is one end of the weight progress chart.
type WeightProgressPoint struct {
	Day    string  `json:"day"`
	Weight float64 `json:"weight"`
}
