package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evmap-service/internal/domain"
	"github.com/evmap-service/internal/usecase"
)

func radiusQuery() domain.MapQuery {
	return domain.MapQuery{
		Mode:     domain.ModeRadius,
		Center:   domain.Point{Lat: 50.0755, Lng: 14.4378},
		RadiusKm: 5,
		Kinds:    []string{domain.KindCharger, domain.KindPOI},
		Fields:   domain.FieldsMinimal,
		Limit:    300,
		Filters: domain.FilterSet{
			Providers:      []string{"ionity", "tesla"},
			ConnectorTypes: []string{"ccs", "chademo"},
		},
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	q := radiusQuery()

	assert.Equal(t, usecase.CacheKey(q), usecase.CacheKey(q))
}

func TestCacheKey_Prefixes(t *testing.T) {
	radius := radiusQuery()
	special := domain.MapQuery{
		Mode:   domain.ModeSpecial,
		Kinds:  []string{domain.KindCharger},
		Fields: domain.FieldsMinimal,
		Limit:  2000,
	}

	assert.True(t, strings.HasPrefix(usecase.CacheKey(radius), usecase.CacheKeyPrefixRadius))
	assert.True(t, strings.HasPrefix(usecase.CacheKey(special), usecase.CacheKeyPrefixSpecial))
}

func TestCacheKey_FilterOrderIndependent(t *testing.T) {
	a := radiusQuery()
	b := radiusQuery()
	b.Filters.Providers = []string{"tesla", "ionity"}
	b.Filters.ConnectorTypes = []string{"chademo", "ccs"}

	assert.Equal(t, usecase.CacheKey(a), usecase.CacheKey(b))
}

func TestCacheKey_KindOrderIndependent(t *testing.T) {
	a := radiusQuery()
	b := radiusQuery()
	b.Kinds = []string{domain.KindPOI, domain.KindCharger}

	assert.Equal(t, usecase.CacheKey(a), usecase.CacheKey(b))
}

func TestCacheKey_SensitiveToParameters(t *testing.T) {
	base := radiusQuery()

	t.Run("radius", func(t *testing.T) {
		q := radiusQuery()
		q.RadiusKm = 10
		assert.NotEqual(t, usecase.CacheKey(base), usecase.CacheKey(q))
	})

	t.Run("fields", func(t *testing.T) {
		q := radiusQuery()
		q.Fields = domain.FieldsFull
		assert.NotEqual(t, usecase.CacheKey(base), usecase.CacheKey(q))
	})

	t.Run("limit", func(t *testing.T) {
		q := radiusQuery()
		q.Limit = 100
		assert.NotEqual(t, usecase.CacheKey(base), usecase.CacheKey(q))
	})

	t.Run("filters", func(t *testing.T) {
		q := radiusQuery()
		q.Filters.FreeOnly = true
		assert.NotEqual(t, usecase.CacheKey(base), usecase.CacheKey(q))
	})

	t.Run("center beyond rounding precision", func(t *testing.T) {
		q := radiusQuery()
		q.Center.Lat = 50.0756
		assert.NotEqual(t, usecase.CacheKey(base), usecase.CacheKey(q))
	})
}

func TestCacheKey_CenterRounding(t *testing.T) {
	// Центр округляется до 4 знаков: запросы в пределах ~11 метров
	// попадают в одну запись кеша
	a := radiusQuery()
	a.Center = domain.Point{Lat: 50.07551, Lng: 14.43781}
	b := radiusQuery()
	b.Center = domain.Point{Lat: 50.07549, Lng: 14.43779}

	assert.Equal(t, usecase.CacheKey(a), usecase.CacheKey(b))
}

func TestCacheKey_SpecialIgnoresCenter(t *testing.T) {
	a := domain.MapQuery{
		Mode:   domain.ModeSpecial,
		Center: domain.Point{Lat: 50.0755, Lng: 14.4378},
		Kinds:  []string{domain.KindCharger},
		Fields: domain.FieldsMinimal,
		Limit:  2000,
	}
	b := a
	b.Center = domain.Point{Lat: 48.8566, Lng: 2.3522}

	assert.Equal(t, usecase.CacheKey(a), usecase.CacheKey(b))
}

func TestCacheKey_SpecialFlagsMatter(t *testing.T) {
	a := domain.MapQuery{
		Mode:   domain.ModeSpecial,
		Kinds:  []string{domain.KindCharger},
		Fields: domain.FieldsMinimal,
		Limit:  2000,
	}
	b := a
	b.Filters.RecommendedOnly = true

	assert.NotEqual(t, usecase.CacheKey(a), usecase.CacheKey(b))
}
