package utils

import (
	"math"
	"net/url"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "page=3&per_page=25", 3, 25},
		{"garbage falls back", "page=x&per_page=y", 1, 10},
		{"zero and negative kept", "page=0&per_page=-5", 0, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			page, perPage := ParsePageParams(q)
			if page != tt.wantPage || perPage != tt.wantPerPage {
				t.Errorf("ParsePageParams(%q) = (%d, %d), want (%d, %d)", tt.query, page, perPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		perPage int
		want    int
	}{
		{"first page", 1, 10, 0},
		{"third page", 3, 10, 20},
		{"zero page", 0, 10, 0},
		{"negative page", math.MinInt, 10, 0},
		{"zero per page", 3, 0, 0},
		{"last exact multiple", math.MaxInt/10 + 1, 10, math.MaxInt / 10 * 10},
		{"overflow saturates", 922337203685477582, 10, math.MaxInt},
		{"overflow to negative saturates", 4611686018427387905, 2, math.MaxInt},
		{"max page", math.MaxInt, math.MaxInt, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Offset(tt.page, tt.perPage); got != tt.want {
				t.Errorf("Offset(%d, %d) = %d, want %d", tt.page, tt.perPage, got, tt.want)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 0, 0},
		{3, math.MaxInt, 1},
		{math.MaxInt64, 1, math.MaxInt},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.perPage); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}
