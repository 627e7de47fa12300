package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/evmap-service/internal/domain"
	apperrors "github.com/evmap-service/internal/pkg/errors"
	"github.com/evmap-service/internal/repository/icons"
	"github.com/evmap-service/internal/usecase"
	"github.com/evmap-service/internal/usecase/dto"
)

// MockEntityRepository is a mock of EntityRepository
type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) Find(ctx context.Context, kind string, filter domain.EntityFilter, bbox *domain.BoundingBox, limit int) ([]*domain.Entity, error) {
	args := m.Called(ctx, kind, filter, bbox, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Entity), args.Error(1)
}

func (m *MockEntityRepository) FindRecent(ctx context.Context, kind string, filter domain.EntityFilter, limit int) ([]*domain.Entity, error) {
	args := m.Called(ctx, kind, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Entity), args.Error(1)
}

func (m *MockEntityRepository) GetByID(ctx context.Context, kind string, id uuid.UUID) (*domain.Entity, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockFavoritesRepository is a mock of FavoritesRepository
type MockFavoritesRepository struct {
	mock.Mock
}

func (m *MockFavoritesRepository) AssignmentsFor(ctx context.Context, userID int64) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockFavoritesRepository) FoldersFor(ctx context.Context, userID int64) ([]*domain.FavoriteFolder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FavoriteFolder), args.Error(1)
}

type mapUseCaseMocks struct {
	entity *MockEntityRepository
	cache  *MockCacheRepository
	fav    *MockFavoritesRepository
}

func newMapUseCase() (*usecase.MapUseCase, *mapUseCaseMocks) {
	mocks := &mapUseCaseMocks{
		entity: &MockEntityRepository{},
		cache:  &MockCacheRepository{},
		fav:    &MockFavoritesRepository{},
	}
	uc := usecase.NewMapUseCase(
		mocks.entity,
		mocks.cache,
		mocks.fav,
		icons.NewIconRepository(),
		zap.NewNop(),
		30*time.Second,
		5*time.Minute,
	)
	return uc, mocks
}

func mkCharger(title, rawLat, rawLng string) *domain.Entity {
	return &domain.Entity{
		ID:        uuid.New(),
		Kind:      domain.KindCharger,
		Title:     title,
		RawLat:    rawLat,
		RawLng:    rawLng,
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now(),
	}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	assert.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	if assert.True(t, ok, "expected *AppError, got %T", err) {
		assert.Equal(t, code, appErr.Code)
	}
}

func TestMapUseCase_Query_Radius(t *testing.T) {
	ctx := context.Background()

	// Центр и три зарядки строго на север: ~0.1, ~0.4 и ~0.6 км
	req := dto.MapRequest{
		Lat:      "50.0755",
		Lng:      "14.4378",
		RadiusKm: 0.5,
		Types:    "chargers",
	}

	near := mkCharger("Near", "50.0764", "14.4378")
	mid := mkCharger("Mid", "50.0791", "14.4378")
	far := mkCharger("Far", "50.0809", "14.4378")

	t.Run("orders by distance and drops points outside radius", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		mocks.cache.On("Get", ctx, mock.AnythingOfType("string")).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.AnythingOfType("string"), mock.Anything, 30*time.Second).Return(nil)
		// Кандидаты возвращаются вперемешку, сортирует ядро
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{mid, far, near}, nil)

		fc, err := uc.Query(ctx, req, nil)

		assert.NoError(t, err)
		assert.NotNil(t, fc)
		assert.Equal(t, domain.GeoJSONFeatureCollection, fc.Type)
		assert.Len(t, fc.Features, 2)
		assert.Equal(t, "Near", fc.Features[0].Properties["title"])
		assert.Equal(t, "Mid", fc.Features[1].Properties["title"])
		assert.Equal(t, 0.1, fc.Features[0].Properties["distance_km"])
		assert.Equal(t, 0.4, fc.Features[1].Properties["distance_km"])

		assert.Equal(t, domain.ModeRadius, fc.Meta.Mode)
		assert.Equal(t, []string{domain.KindCharger}, fc.Meta.Kinds)
		assert.Equal(t, 0.5, fc.Meta.RadiusKm)
		assert.NotNil(t, fc.Meta.Center)
		assert.Equal(t, 2, fc.Meta.Total)
		assert.Equal(t, 2, fc.Meta.TotalBeforeLimit)
		assert.False(t, fc.Meta.Truncated)
		assert.Equal(t, "miss", fc.Meta.Cache)

		mocks.entity.AssertExpectations(t)
		mocks.cache.AssertExpectations(t)
	})

	t.Run("truncates to limit and reports it", func(t *testing.T) {
		uc, mocks := newMapUseCase()
		limited := req
		limited.Limit = 1

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{mid, near}, nil)

		fc, err := uc.Query(ctx, limited, nil)

		assert.NoError(t, err)
		assert.Len(t, fc.Features, 1)
		assert.Equal(t, "Near", fc.Features[0].Properties["title"])
		assert.Equal(t, 1, fc.Meta.Total)
		assert.Equal(t, 2, fc.Meta.TotalBeforeLimit)
		assert.True(t, fc.Meta.Truncated)
	})

	t.Run("excludes null island and unparseable coordinates", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		nullIsland := mkCharger("Nowhere", "0", "0")
		broken := mkCharger("Broken", "not-a-number", "14.4378")

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{nullIsland, broken, near}, nil)

		fc, err := uc.Query(ctx, req, nil)

		assert.NoError(t, err)
		assert.Len(t, fc.Features, 1)
		assert.Equal(t, "Near", fc.Features[0].Properties["title"])
	})

	t.Run("comma decimal separator in center accepted", func(t *testing.T) {
		uc, mocks := newMapUseCase()
		commaReq := req
		commaReq.Lat = "50,0755"
		commaReq.Lng = "14,4378"

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{near}, nil)

		fc, err := uc.Query(ctx, commaReq, nil)

		assert.NoError(t, err)
		assert.Len(t, fc.Features, 1)
		assert.Equal(t, 50.0755, fc.Meta.Center.Lat)
	})

	t.Run("empty types queries all kinds", func(t *testing.T) {
		uc, mocks := newMapUseCase()
		allReq := req
		allReq.Types = ""

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		for _, kind := range domain.AllKinds() {
			mocks.entity.On("Find", ctx, kind, mock.Anything, mock.Anything, domain.CandidateCeiling).
				Return([]*domain.Entity{}, nil)
		}

		fc, err := uc.Query(ctx, allReq, nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.AllKinds(), fc.Meta.Kinds)
		mocks.entity.AssertExpectations(t)
	})

	t.Run("degrades a single kind on adapter failure", func(t *testing.T) {
		uc, mocks := newMapUseCase()
		mixedReq := req
		mixedReq.Types = "charger,poi"

		poi := &domain.Entity{
			ID:     uuid.New(),
			Kind:   domain.KindPOI,
			Title:  "Cafe",
			RawLat: "50.0760",
			RawLng: "14.4378",
		}

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return(nil, errors.New("database error"))
		mocks.entity.On("Find", ctx, domain.KindPOI, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{poi}, nil)

		fc, err := uc.Query(ctx, mixedReq, nil)

		assert.NoError(t, err)
		assert.Len(t, fc.Features, 1)
		assert.Equal(t, "Cafe", fc.Features[0].Properties["title"])
		assert.Contains(t, fc.Meta.Warnings, "charger: fetch failed")
	})
}

func TestMapUseCase_Query_Validation(t *testing.T) {
	ctx := context.Background()

	base := dto.MapRequest{
		Lat:      "50.0755",
		Lng:      "14.4378",
		RadiusKm: 5,
		Types:    "chargers",
	}

	tests := []struct {
		name    string
		mutate  func(r *dto.MapRequest)
		errCode string
	}{
		{"radius above maximum", func(r *dto.MapRequest) { r.RadiusKm = 51 }, "INVALID_RADIUS"},
		{"negative radius", func(r *dto.MapRequest) { r.RadiusKm = -1 }, "INVALID_RADIUS"},
		{"missing radius", func(r *dto.MapRequest) { r.RadiusKm = 0 }, "RADIUS_REQUIRED"},
		{"unparseable latitude", func(r *dto.MapRequest) { r.Lat = "abc" }, "INVALID_COORDINATES"},
		{"latitude out of range", func(r *dto.MapRequest) { r.Lat = "91" }, "INVALID_COORDINATES"},
		{"missing longitude", func(r *dto.MapRequest) { r.Lng = "" }, "INVALID_COORDINATES"},
		{"unknown type", func(r *dto.MapRequest) { r.Types = "dragon" }, "INVALID_KIND"},
		{"limit above maximum", func(r *dto.MapRequest) { r.Limit = 301 }, "INVALID_LIMIT"},
		{"negative limit", func(r *dto.MapRequest) { r.Limit = -5 }, "INVALID_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mocks := newMapUseCase()
			req := base
			tt.mutate(&req)

			fc, err := uc.Query(ctx, req, nil)

			assert.Nil(t, fc)
			assertAppError(t, err, tt.errCode)
			// Невалидный запрос не доходит ни до кеша, ни до хранилища
			mocks.cache.AssertNotCalled(t, "Get")
			mocks.entity.AssertNotCalled(t, "Find")
		})
	}
}

func TestMapUseCase_Query_Special(t *testing.T) {
	ctx := context.Background()

	req := dto.MapRequest{Mode: "special"}

	t.Run("returns chargers by recency without distance", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		// Точки на разных континентах: special не привязан к центру
		freshest := mkCharger("Prague", "50.0755", "14.4378")
		older := mkCharger("Sydney", "-33.8688", "151.2093")

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, usecase.CacheKeyPrefixSpecial)
		}), mock.Anything, 5*time.Minute).Return(nil)
		mocks.entity.On("FindRecent", ctx, domain.KindCharger, mock.Anything, domain.SpecialLimit).
			Return([]*domain.Entity{freshest, older}, nil)

		fc, err := uc.Query(ctx, req, nil)

		assert.NoError(t, err)
		assert.Len(t, fc.Features, 2)
		assert.Equal(t, "Prague", fc.Features[0].Properties["title"])
		assert.Equal(t, "Sydney", fc.Features[1].Properties["title"])
		assert.NotContains(t, fc.Features[0].Properties, "distance_km")

		assert.Equal(t, domain.ModeSpecial, fc.Meta.Mode)
		assert.Nil(t, fc.Meta.Center)
		assert.Zero(t, fc.Meta.RadiusKm)
		assert.Equal(t, []string{domain.KindCharger}, fc.Meta.Kinds)

		mocks.cache.AssertExpectations(t)
		mocks.entity.AssertExpectations(t)
	})

	t.Run("limit defaults to special maximum", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mocks.entity.On("FindRecent", ctx, domain.KindCharger, mock.Anything, domain.SpecialLimit).
			Return([]*domain.Entity{}, nil)

		fc, err := uc.Query(ctx, req, nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.SpecialLimit, fc.Meta.Limit)
	})

	t.Run("fetch failure aborts the request", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.entity.On("FindRecent", ctx, domain.KindCharger, mock.Anything, domain.SpecialLimit).
			Return(nil, errors.New("database error"))

		fc, err := uc.Query(ctx, req, nil)

		assert.Error(t, err)
		assert.Nil(t, fc)
		mocks.cache.AssertNotCalled(t, "Set")
	})
}

func TestMapUseCase_Query_Caching(t *testing.T) {
	ctx := context.Background()

	req := dto.MapRequest{
		Lat:      "50.0755",
		Lng:      "14.4378",
		RadiusKm: 0.5,
		Types:    "chargers",
	}
	near := mkCharger("Near", "50.0764", "14.4378")

	t.Run("hit serves identical features without touching the store", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		var cachedBytes []byte
		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil).Once()
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				cachedBytes = args.Get(2).([]byte)
			}).Return(nil).Once()
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{near}, nil).Once()

		first, err := uc.Query(ctx, req, nil)
		assert.NoError(t, err)
		assert.Equal(t, "miss", first.Meta.Cache)
		assert.NotEmpty(t, cachedBytes)

		uc2, mocks2 := newMapUseCase()
		mocks2.cache.On("Get", ctx, mock.Anything).Return(cachedBytes, nil)

		second, err := uc2.Query(ctx, req, nil)
		assert.NoError(t, err)
		assert.Equal(t, "hit", second.Meta.Cache)
		assert.Equal(t, first.Features, second.Features)
		mocks2.entity.AssertNotCalled(t, "Find")
		mocks2.cache.AssertNotCalled(t, "Set")
	})

	t.Run("cache failure bypasses caching but serves the request", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, errors.New("redis down"))
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{near}, nil)

		fc, err := uc.Query(ctx, req, nil)

		assert.NoError(t, err)
		assert.Len(t, fc.Features, 1)
		assert.Equal(t, "bypass", fc.Meta.Cache)
		mocks.cache.AssertNotCalled(t, "Set")
	})

	t.Run("corrupted cache entry falls back to assembly", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		mocks.cache.On("Get", ctx, mock.Anything).Return([]byte("{broken"), nil)
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{near}, nil)

		fc, err := uc.Query(ctx, req, nil)

		assert.NoError(t, err)
		assert.Len(t, fc.Features, 1)
		assert.Equal(t, "miss", fc.Meta.Cache)
	})
}

func TestMapUseCase_Query_Favorites(t *testing.T) {
	ctx := context.Background()
	userID := int64(42)

	req := dto.MapRequest{
		Lat:      "50.0755",
		Lng:      "14.4378",
		RadiusKm: 0.5,
		Types:    "chargers",
	}
	near := mkCharger("Near", "50.0764", "14.4378")
	other := mkCharger("Other", "50.0760", "14.4378")

	t.Run("annotations applied after caching, never stored", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		var cachedBytes []byte
		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				cachedBytes = args.Get(2).([]byte)
			}).Return(nil)
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{near, other}, nil)
		mocks.fav.On("AssignmentsFor", ctx, userID).
			Return(map[uuid.UUID]int64{near.ID: 7}, nil)
		mocks.fav.On("FoldersFor", ctx, userID).
			Return([]*domain.FavoriteFolder{
				{ID: 7, Name: "Road trip", Icon: "star", Type: "personal", Limit: 100},
			}, nil)

		fc, err := uc.Query(ctx, req, &userID)

		assert.NoError(t, err)
		assert.Len(t, fc.Features, 2)

		// Кешированное значение свободно от персональных полей
		assert.NotContains(t, string(cachedBytes), "favorite")

		var annotated map[string]interface{}
		for _, f := range fc.Features {
			if f.Properties["title"] == "Other" {
				assert.NotContains(t, f.Properties, "favorite")
				continue
			}
			fav, ok := f.Properties["favorite"].(map[string]interface{})
			assert.True(t, ok)
			annotated = fav
		}
		assert.NotNil(t, annotated)
		assert.Equal(t, int64(7), annotated["folder_id"])
		assert.Equal(t, "Road trip", annotated["folder_name"])
		assert.Equal(t, "star", annotated["icon"])
	})

	t.Run("favorites failure does not break the response", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{near}, nil)
		mocks.fav.On("AssignmentsFor", ctx, userID).
			Return(nil, errors.New("database error"))

		fc, err := uc.Query(ctx, req, &userID)

		assert.NoError(t, err)
		assert.Len(t, fc.Features, 1)
		assert.NotContains(t, fc.Features[0].Properties, "favorite")
	})

	t.Run("anonymous request never reads favorites", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		mocks.cache.On("Get", ctx, mock.Anything).Return(nil, nil)
		mocks.cache.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mocks.entity.On("Find", ctx, domain.KindCharger, mock.Anything, mock.Anything, domain.CandidateCeiling).
			Return([]*domain.Entity{near}, nil)

		_, err := uc.Query(ctx, req, nil)

		assert.NoError(t, err)
		mocks.fav.AssertNotCalled(t, "AssignmentsFor")
	})
}

func TestMapUseCase_GetDetail(t *testing.T) {
	ctx := context.Background()

	entity := mkCharger("Supercharger", "50.0710", "14.4020")
	entity.Meta = map[string]string{
		domain.MetaAddress: "Strakonicka 1, Praha",
	}

	t.Run("full payload with distance from center", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		mocks.entity.On("GetByID", ctx, domain.KindCharger, entity.ID).Return(entity, nil)

		fc, err := uc.GetDetail(ctx, "chargers", entity.ID.String(), "50.0755,14.4378", nil)

		assert.NoError(t, err)
		assert.Len(t, fc.Features, 1)

		props := fc.Features[0].Properties
		assert.Equal(t, "Strakonicka 1, Praha", props["address"])
		distance, ok := props["distance_km"].(float64)
		assert.True(t, ok)
		assert.Greater(t, distance, 0.0)

		assert.Equal(t, "detail", fc.Meta.Mode)
		assert.Equal(t, domain.FieldsFull, fc.Meta.Fields)
		assert.Equal(t, 1, fc.Meta.Total)
		assert.NotNil(t, fc.Meta.Center)
	})

	t.Run("no center means no distance", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		mocks.entity.On("GetByID", ctx, domain.KindCharger, entity.ID).Return(entity, nil)

		fc, err := uc.GetDetail(ctx, "charger", entity.ID.String(), "", nil)

		assert.NoError(t, err)
		assert.NotContains(t, fc.Features[0].Properties, "distance_km")
		assert.Nil(t, fc.Meta.Center)
	})

	t.Run("malformed center is ignored", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		mocks.entity.On("GetByID", ctx, domain.KindCharger, entity.ID).Return(entity, nil)

		fc, err := uc.GetDetail(ctx, "charger", entity.ID.String(), "not-a-center", nil)

		assert.NoError(t, err)
		assert.NotContains(t, fc.Features[0].Properties, "distance_km")
	})

	t.Run("unknown kind", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		fc, err := uc.GetDetail(ctx, "dragon", uuid.NewString(), "", nil)

		assert.Nil(t, fc)
		assertAppError(t, err, "INVALID_KIND")
		mocks.entity.AssertNotCalled(t, "GetByID")
	})

	t.Run("malformed id", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		fc, err := uc.GetDetail(ctx, "charger", "not-a-uuid", "", nil)

		assert.Nil(t, fc)
		assertAppError(t, err, "INVALID_REQUEST")
		mocks.entity.AssertNotCalled(t, "GetByID")
	})

	t.Run("entity without coordinates", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		nowhere := mkCharger("Nowhere", "0", "0")
		mocks.entity.On("GetByID", ctx, domain.KindCharger, nowhere.ID).Return(nowhere, nil)

		fc, err := uc.GetDetail(ctx, "charger", nowhere.ID.String(), "", nil)

		assert.Nil(t, fc)
		assertAppError(t, err, "ENTITY_NO_COORDINATES")
	})

	t.Run("store error propagates", func(t *testing.T) {
		uc, mocks := newMapUseCase()

		id := uuid.New()
		mocks.entity.On("GetByID", ctx, domain.KindCharger, id).
			Return(nil, fmt.Errorf("entity lookup: %w", errors.New("not found")))

		fc, err := uc.GetDetail(ctx, "charger", id.String(), "", nil)

		assert.Nil(t, fc)
		assert.Error(t, err)
	})
}
