package icons

import (
	"github.com/evmap-service/internal/domain"
	"github.com/evmap-service/internal/domain/repository"
)

// Статическая таблица стилей маркеров. Внешний резолвер стилей может
// заменить эту реализацию через интерфейс IconRepository.
var kindDefaults = map[string]domain.IconStyle{
	domain.KindCharger: {Slug: "charger", Color: "#2e7d32"},
	domain.KindPOI:     {Slug: "poi", Color: "#1565c0"},
	domain.KindRVSpot:  {Slug: "rv-spot", Color: "#6d4c41"},
}

// typeAxisByKind - ось, чей первый терм уточняет иконку внутри типа
var typeAxisByKind = map[string]string{
	domain.KindCharger: domain.AxisProvider,
	domain.KindPOI:     domain.AxisPOIType,
	domain.KindRVSpot:  domain.AxisRVType,
}

type iconRepository struct{}

func NewIconRepository() repository.IconRepository {
	return &iconRepository{}
}

// Resolve возвращает слаг иконки и цвет маркера для сущности
func (r *iconRepository) Resolve(entity *domain.Entity) domain.IconStyle {
	style, ok := kindDefaults[entity.Kind]
	if !ok {
		style = domain.IconStyle{Slug: "marker", Color: "#616161"}
	}

	if axis, ok := typeAxisByKind[entity.Kind]; ok {
		if tag := entity.FirstTag(axis); tag != nil {
			style.Slug = style.Slug + "-" + tag.Slug
		}
	}

	if entity.MetaFlag(domain.MetaRecommended) {
		style.Color = "#f9a825"
	}

	return style
}
