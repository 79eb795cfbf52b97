package fiber

import "time"

type TopItemResponse struct {
	Index  *int   `json:"index" example:"3"`
	Name   string `json:"name" example:"Cheesecake"`
	Clicks int64  `json:"clicks" example:"5"`
}

type MonthlySummaryResponse struct {
	Slug     string            `json:"slug" example:"cafe-blue"`
	Year     int               `json:"year" example:"2025"`
	Month    int               `json:"month" example:"3"`
	From     time.Time         `json:"from"`
	To       time.Time         `json:"to"`
	Scans    int64             `json:"scans" example:"120"`
	Clicks   int64             `json:"clicks" example:"7"`
	TopItems []TopItemResponse `json:"top_items"`
}

type TopItemsResponse struct {
	Slug      string            `json:"slug" example:"cafe-blue"`
	SinceDays int               `json:"since_days" example:"30"`
	From      time.Time         `json:"from"`
	To        time.Time         `json:"to"`
	Items     []TopItemResponse `json:"items"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"month must be in 1..12"`
}
