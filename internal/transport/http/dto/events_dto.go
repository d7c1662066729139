package dto

type InteractionRequest struct {
	Kind string `json:"kind"`
}
