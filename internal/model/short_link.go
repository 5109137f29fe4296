package model

import "time"

type ShortLink struct {
	ID        int64     `json:"id" db:"id"`
	FullURL   string    `json:"fullUrl" db:"full_url"`
	ShortCode string    `json:"shortCode" db:"short_code"`
	IsCustom  bool      `json:"isCustom" db:"is_custom"`
	Clicks    int64     `json:"clicks" db:"clicks"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CreateShortLinkRequest struct {
	FullURL   string `json:"fullUrl"`
	CustomURL string `json:"customUrl"`
}

type ShortLinkResponse struct {
	ID        int64     `json:"id"`
	FullURL   string    `json:"fullUrl"`
	ShortCode string    `json:"shortCode"`
	ShortURL  string    `json:"shortUrl"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"createdAt"`
}
