package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/shared/dto"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name       string
		filter     dto.Filter
		wantClause string
		wantArgs   map[string]any
	}{
		{
			name: "equality with table qualifier",
			filter: dto.Filter{
				Field:    "organization_id",
				Operator: dto.FilterOperatorEq,
				Value:    int64(40),
				Table:    "hotels",
			},
			wantClause: "hotels.organization_id = :organization_id",
			wantArgs:   map[string]any{"organization_id": int64(40)},
		},
		{
			name: "like wraps the value in wildcards",
			filter: dto.Filter{
				Field:    "last_name",
				Operator: dto.FilterOperatorLike,
				Value:    "love",
				Table:    "guests",
				ArgName:  "search_0",
			},
			wantClause: "LOWER(guests.last_name) LIKE LOWER(:search_0)",
			wantArgs:   map[string]any{"search_0": "%love%"},
		},
		{
			name: "less-than without a table",
			filter: dto.Filter{
				Field:    "check_in_date",
				Operator: dto.FilterOperatorLess,
				Value:    "2030-01-14",
			},
			wantClause: "check_in_date < :check_in_date",
			wantArgs:   map[string]any{"check_in_date": "2030-01-14"},
		},
		{
			name: "in expands the slice into named args",
			filter: dto.Filter{
				Field:    "room_id",
				Operator: dto.FilterOperatorIn,
				Value:    []int64{1, 2},
				Table:    "rooms",
			},
			wantClause: "rooms.room_id IN (:room_id_0, :room_id_1)",
			wantArgs:   map[string]any{"room_id_0": int64(1), "room_id_1": int64(2)},
		},
		{
			name: "is null takes no args",
			filter: dto.Filter{
				Field:    "user_id",
				Operator: dto.FilterIsNull,
				Table:    "guests",
			},
			wantClause: "guests.user_id IS NULL",
			wantArgs:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantClause, clause)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	t.Run("defaults to AND", func(t *testing.T) {
		group := dto.FilterGroup{
			Filters: []any{
				dto.Filter{Field: "room_id", Operator: dto.FilterOperatorEq, Value: int64(5), Table: "bookings"},
				dto.Filter{Field: "check_in_date", Operator: dto.FilterOperatorLess, Value: "2030-01-14", Table: "bookings"},
			},
		}

		clause, args := group.GetWhereClause()

		assert.Equal(t, "(bookings.room_id = :room_id AND bookings.check_in_date < :check_in_date)", clause)
		assert.Len(t, args, 2)
	})

	t.Run("nested OR group inside an AND group", func(t *testing.T) {
		group := dto.FilterGroup{
			Filters: []any{
				dto.Filter{Field: "user_id", Operator: dto.FilterOperatorEq, Value: int64(7), Table: "guests"},
				dto.FilterGroup{
					Operator: dto.FilterGroupOperatorOr,
					Filters: []any{
						dto.Filter{ArgName: "search_0", Field: "first_name", Operator: dto.FilterOperatorLike, Value: "ada", Table: "guests"},
						dto.Filter{ArgName: "search_1", Field: "last_name", Operator: dto.FilterOperatorLike, Value: "ada", Table: "guests"},
					},
				},
			},
		}

		clause, args := group.GetWhereClause()

		assert.Equal(t,
			"(guests.user_id = :user_id AND (LOWER(guests.first_name) LIKE LOWER(:search_0) OR LOWER(guests.last_name) LIKE LOWER(:search_1)))",
			clause)
		assert.Equal(t, map[string]any{
			"user_id":  int64(7),
			"search_0": "%ada%",
			"search_1": "%ada%",
		}, args)
	})

	t.Run("empty group renders nothing", func(t *testing.T) {
		group := dto.FilterGroup{}

		clause, args := group.GetWhereClause()

		assert.Empty(t, clause)
		assert.Empty(t, args)
	})
}
