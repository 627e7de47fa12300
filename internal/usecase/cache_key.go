package usecase

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/evmap-service/internal/domain"
)

// Cache key prefixes. Special-префикс используется событийной
// инвалидацией для удаления всех special-записей разом.
const (
	CacheKeyPrefixRadius  = "map:radius:"
	CacheKeyPrefixSpecial = "map:special:"
)

// centerPrecision - десятичных знаков центра в ключе кеша;
// 4 знака - около 11 метров, достаточно для совпадения повторных запросов
const centerPrecision = "%.4f"

// CacheKey детерминированно хеширует все параметры, влияющие на
// результат. Структурно равные запросы дают один ключ независимо от
// порядка значений в фильтрах.
func CacheKey(q domain.MapQuery) string {
	if q.Mode == domain.ModeSpecial {
		return specialCacheKey(q)
	}
	return radiusCacheKey(q)
}

func radiusCacheKey(q domain.MapQuery) string {
	kinds := append([]string(nil), q.Kinds...)
	sort.Strings(kinds)

	canonical := fmt.Sprintf(
		"lat="+centerPrecision+"|lng="+centerPrecision+"|r=%.2f|kinds=%s|fields=%s|limit=%d|f=%s",
		q.Center.Lat,
		q.Center.Lng,
		q.RadiusKm,
		strings.Join(kinds, ","),
		q.Fields,
		q.Limit,
		filterFingerprint(q.Filters),
	)

	return CacheKeyPrefixRadius + hashKey(canonical)
}

func specialCacheKey(q domain.MapQuery) string {
	canonical := fmt.Sprintf(
		"mode=special|rec=%t|free=%t|fields=%s|limit=%d",
		q.Filters.RecommendedOnly,
		q.Filters.FreeOnly,
		q.Fields,
		q.Limit,
	)

	return CacheKeyPrefixSpecial + hashKey(canonical)
}

// filterFingerprint - вторичный хеш нормализованного набора фильтров;
// списки осей сортируются, чтобы порядок в запросе не влиял на ключ
func filterFingerprint(f domain.FilterSet) string {
	canonical := strings.Join([]string{
		"prov=" + sortedJoin(f.Providers),
		"conn=" + sortedJoin(f.ConnectorTypes),
		"poit=" + sortedJoin(f.POITypes),
		"amen=" + sortedJoin(f.Amenities),
		fmt.Sprintf("rec=%t", f.RecommendedOnly),
		fmt.Sprintf("free=%t", f.FreeOnly),
	}, "|")

	return hashKey(canonical)
}

func sortedJoin(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func hashKey(canonical string) string {
	sum := sha1.Sum([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
