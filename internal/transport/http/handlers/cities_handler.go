package handlers

import (
	"net/http"

	citiessvc "github.com/mlisovenko/vitrina/backend/internal/services/cities"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/dto"
	httperrors "github.com/mlisovenko/vitrina/backend/internal/transport/http/errors"
)

type CitiesHandler struct {
	service *citiessvc.Service
}

func NewCitiesHandler(service *citiessvc.Service) *CitiesHandler {
	return &CitiesHandler{service: service}
}

func (h *CitiesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	cities := h.service.List()

	out := make([]dto.CityResponse, 0, len(cities))
	for _, city := range cities {
		out = append(out, dto.CityResponse{
			ID:      city.ID,
			Name:    city.Name,
			Aliases: city.Aliases,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.CitiesResponse{Cities: out})
}
