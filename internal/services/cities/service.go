package cities

import (
	"strings"

	"github.com/mlisovenko/vitrina/backend/internal/config"
)

// Service resolves localized city-name aliases to canonical city ids so a
// search term typed in a secondary language still matches listings stored
// under the canonical name.
type Service struct {
	cities  []config.CityConfig
	byAlias map[string]string
	byID    map[string]config.CityConfig
}

func NewService(cities []config.CityConfig) *Service {
	byAlias := make(map[string]string)
	byID := make(map[string]config.CityConfig, len(cities))
	for _, city := range cities {
		id := strings.ToLower(strings.TrimSpace(city.ID))
		if id == "" {
			continue
		}
		byID[id] = city
		byAlias[strings.ToLower(strings.TrimSpace(city.Name))] = id
		for _, alias := range city.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias != "" {
				byAlias[alias] = id
			}
		}
	}

	return &Service{
		cities:  cities,
		byAlias: byAlias,
		byID:    byID,
	}
}

// Resolve maps a free-text term to a canonical city id. Returns false when
// the term matches no known name or alias; the caller then treats the term as
// plain search text.
func (s *Service) Resolve(term string) (string, bool) {
	id, ok := s.byAlias[strings.ToLower(strings.TrimSpace(term))]
	return id, ok
}

func (s *Service) Get(id string) (config.CityConfig, bool) {
	city, ok := s.byID[strings.ToLower(strings.TrimSpace(id))]
	return city, ok
}

func (s *Service) List() []config.CityConfig {
	return append([]config.CityConfig(nil), s.cities...)
}
