package usecase

import (
	"strings"

	"github.com/evmap-service/internal/domain"
	"github.com/evmap-service/internal/usecase/dto"
)

// ParseFilterSet строит типизированный FilterSet из сырых параметров
// запроса. Единственная точка, где нетипизированные значения с границы
// превращаются во внутреннее представление.
func ParseFilterSet(req dto.MapRequest) domain.FilterSet {
	return domain.FilterSet{
		Providers:       splitSlugs(req.Providers),
		POITypes:        splitSlugs(req.POITypes),
		Amenities:       splitSlugs(req.Amenities),
		ConnectorTypes:  splitSlugs(req.ConnectorTypes),
		RecommendedOnly: parseFlag(req.Recommended),
		FreeOnly:        parseFlag(req.Free),
	}
}

// CompileFilter превращает FilterSet в предикат адаптера для конкретного
// типа. Ось, бессмысленная для типа (connector_type у POI), молча
// отбрасывается - она не должна обнулять выдачу этого типа.
func CompileFilter(f domain.FilterSet, kind string) domain.EntityFilter {
	compiled := domain.EntityFilter{
		TagAxes: make(map[string][]string),
		Meta:    make(map[string]string),
	}

	addAxis := func(axis string, slugs []string) {
		if len(slugs) > 0 && domain.KindHasAxis(kind, axis) {
			compiled.TagAxes[axis] = slugs
		}
	}

	addAxis(domain.AxisProvider, f.Providers)
	addAxis(domain.AxisConnectorType, f.ConnectorTypes)
	addAxis(domain.AxisPOIType, f.POITypes)
	addAxis(domain.AxisAmenity, f.Amenities)

	if f.RecommendedOnly {
		compiled.Meta[domain.MetaRecommended] = "1"
	}
	if f.FreeOnly {
		compiled.Meta[domain.MetaFree] = "1"
	}

	return compiled
}

// splitSlugs разбирает comma-separated список слагов: trim, lowercase,
// дедупликация с сохранением порядка
func splitSlugs(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		slug := strings.ToLower(strings.TrimSpace(p))
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		result = append(result, slug)
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// parseFlag разбирает булев флаг запроса ("1", "true", "yes", "on")
func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
