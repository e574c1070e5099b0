package shared

import (
	"context"
	"fmt"
	"innkeep/shared/constant"
	"innkeep/shared/dto"
	"innkeep/shared/timezone"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Cacher is the subset of the redis cache used by the invalidation helpers.
type Cacher interface {
	Clear(ctx context.Context, prefix string) error
}

func BuildCacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a deterministic cache key from the paging
// params and filter group so distinct listings never share an entry.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	return fmt.Sprintf("%s:%d:%d:%s:%s:%v", prefix, params.Page, params.Limit, params.SortBy, params.SortDir, filter.Filters)
}

func InvalidateCaches(ctx context.Context, cache Cacher, prefix string) {
	if err := cache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// ParseID parses a positive decimal identifier from a path or form value.
func ParseID(value string) (int64, bool) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func FilterByID(id int64, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non-zero fields of a patch struct into a map of
// updated columns, stamping updated_at.
func TransformFields(data interface{}) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := 0; index < val.NumField(); index++ {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldUpdatedAt] = timezone.Now()

	return updatedFields
}

// SearchFilter builds a case-insensitive OR group matching the search text
// against every listed table.column pair. Columns are given as "table.column".
func SearchFilter(search string, columns ...string) dto.FilterGroup {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorOr}

	for i, col := range columns {
		table, field, _ := strings.Cut(col, ".")
		group.Filters = append(group.Filters, dto.Filter{
			ArgName:  "search_" + strconv.Itoa(i),
			Field:    field,
			Table:    table,
			Value:    search,
			Operator: dto.FilterOperatorLike,
		})
	}

	return group
}
