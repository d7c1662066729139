package dto

import "time"

type PhotoResponse struct {
	ID        int64     `json:"id"`
	Position  int       `json:"position"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type PhotosResponse struct {
	Photos []PhotoResponse `json:"photos"`
}
