package domain

import "time"

// SearchFilters are AND-combined; zero values mean "no constraint".
type SearchFilters struct {
	Type       DeclarationType `json:"type,omitempty" query:"type"`
	Category   string          `json:"category,omitempty" query:"category"`
	Condition  string          `json:"condition,omitempty" query:"condition"`
	Location   string          `json:"location,omitempty" query:"location"`
	SearchTerm string          `json:"search_term,omitempty" query:"q"`
	DateFrom   *time.Time      `json:"date_from,omitempty" query:"date_from"`
	DateTo     *time.Time      `json:"date_to,omitempty" query:"date_to"`
}

// SearchPage is one offset-paginated slice of browse results.
type SearchPage struct {
	Items         []Declaration `json:"items"`
	HasMore       bool          `json:"has_more"`
	TotalFiltered int           `json:"total_filtered"`
	Offset        int           `json:"offset"`
	PageSize      int           `json:"page_size"`
}
