package model_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"innkeep/internal/domains/booking/model"
	"innkeep/shared/constant"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		aIn  string
		aOut string
		bIn  string
		bOut string
		want bool
	}{
		{
			name: "identical stays overlap",
			aIn:  "2026-09-01", aOut: "2026-09-05",
			bIn: "2026-09-01", bOut: "2026-09-05",
			want: true,
		},
		{
			name: "partial overlap at the tail",
			aIn:  "2026-09-01", aOut: "2026-09-05",
			bIn: "2026-09-04", bOut: "2026-09-08",
			want: true,
		},
		{
			name: "one stay contained in the other",
			aIn:  "2026-09-01", aOut: "2026-09-10",
			bIn: "2026-09-03", bOut: "2026-09-05",
			want: true,
		},
		{
			name: "back to back stays do not overlap",
			aIn:  "2026-09-01", aOut: "2026-09-05",
			bIn: "2026-09-05", bOut: "2026-09-08",
			want: false,
		},
		{
			name: "back to back stays the other way around",
			aIn:  "2026-09-05", aOut: "2026-09-08",
			bIn: "2026-09-01", bOut: "2026-09-05",
			want: false,
		},
		{
			name: "disjoint stays",
			aIn:  "2026-09-01", aOut: "2026-09-03",
			bIn: "2026-09-10", bOut: "2026-09-12",
			want: false,
		},
		{
			name: "single night against the same night",
			aIn:  "2026-09-01", aOut: "2026-09-02",
			bIn: "2026-09-01", bOut: "2026-09-02",
			want: true,
		},
		{
			name: "overlap across a month boundary",
			aIn:  "2026-09-28", aOut: "2026-10-02",
			bIn: "2026-10-01", bOut: "2026-10-05",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.Overlaps(tt.aIn, tt.aOut, tt.bIn, tt.bOut)
			assert.Equal(t, tt.want, got)

			// Overlap is symmetric in its two intervals.
			mirrored := model.Overlaps(tt.bIn, tt.bOut, tt.aIn, tt.aOut)
			assert.Equal(t, tt.want, mirrored)
		})
	}
}

func TestOverlapsSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	day := func(offset int) string {
		return base.AddDate(0, 0, offset).Format(constant.StayDateFormat)
	}

	for i := 0; i < 200; i++ {
		aStart := rng.Intn(30)
		bStart := rng.Intn(30)

		aIn, aOut := day(aStart), day(aStart+1+rng.Intn(10))
		bIn, bOut := day(bStart), day(bStart+1+rng.Intn(10))

		forward := model.Overlaps(aIn, aOut, bIn, bOut)
		backward := model.Overlaps(bIn, bOut, aIn, aOut)

		assert.Equal(t, forward, backward, "intervals [%s,%s) and [%s,%s)", aIn, aOut, bIn, bOut)
	}
}

func TestStayDays(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     int
	}{
		{
			name:    "single night",
			checkIn: "2026-09-01", checkOut: "2026-09-02",
			want: 1,
		},
		{
			name:    "four nights",
			checkIn: "2026-09-01", checkOut: "2026-09-05",
			want: 4,
		},
		{
			name:    "stay across a month boundary",
			checkIn: "2026-09-28", checkOut: "2026-10-02",
			want: 4,
		},
		{
			name:    "stay across a year boundary",
			checkIn: "2026-12-30", checkOut: "2027-01-02",
			want: 3,
		},
		{
			name:    "same day never bills less than one night",
			checkIn: "2026-09-01", checkOut: "2026-09-01",
			want: 1,
		},
		{
			name:    "unparseable input falls back to one night",
			checkIn: "not-a-date", checkOut: "2026-09-05",
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.StayDays(tt.checkIn, tt.checkOut))
		})
	}
}

func TestTotalPrice(t *testing.T) {
	assert.Equal(t, 400.0, model.TotalPrice(100, 4))
	assert.Equal(t, 99.5, model.TotalPrice(99.5, 1))
	assert.Equal(t, 0.0, model.TotalPrice(0, 10))
	assert.InDelta(t, 359.97, model.TotalPrice(119.99, 3), 0.0001)
}

func TestBookingListItem_Ownership(t *testing.T) {
	owner := int64(7)
	org := int64(42)

	item := model.BookingListItem{
		GuestOwnerID:        &owner,
		HotelOrganizationID: &org,
	}

	assert.True(t, item.GuestOwnedBy(7))
	assert.False(t, item.GuestOwnedBy(8))
	assert.True(t, item.HotelOwnedBy(42))
	assert.False(t, item.HotelOwnedBy(41))

	// Anonymous guests and catalog rooms carry no owner at all.
	orphan := model.BookingListItem{}
	assert.False(t, orphan.GuestOwnedBy(7))
	assert.False(t, orphan.HotelOwnedBy(42))
}

func TestBookingListItem_GuestName(t *testing.T) {
	item := model.BookingListItem{GuestFirstName: "Ada", GuestLastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", item.GuestName())

	item = model.BookingListItem{GuestLastName: "Lovelace"}
	assert.Equal(t, "Lovelace", item.GuestName())
}
