package dto

import (
	"time"

	"pdv/internal/domain/reports"
)

// ReportQuery selects the sales covered by a report. Dates are required and
// inclusive.
type ReportQuery struct {
	DateFrom string `form:"date_from" binding:"required"`
	DateTo   string `form:"date_to" binding:"required"`
	ClientID string `form:"clientId" binding:"omitempty,uuid"`
	SellerID string `form:"sellerId" binding:"omitempty,uuid"`
	Search   string `form:"search"`
	// Product narrows the by-product report to a code or description.
	Product string `form:"product"`
}

// ToFilter parses the query in loc.
func (q ReportQuery) ToFilter(loc *time.Location) (reports.Filter, error) {
	rng, err := reports.ParseDateRange(q.DateFrom, q.DateTo, loc)
	if err != nil {
		return reports.Filter{}, err
	}
	f := reports.Filter{Range: rng, Search: q.Search, ProductSearch: q.Product}
	if f.ClientID, err = ParseOptionalID("clientId", q.ClientID); err != nil {
		return f, err
	}
	if f.SellerID, err = ParseOptionalID("sellerId", q.SellerID); err != nil {
		return f, err
	}
	return f, nil
}

// ReportResponse wraps a report with the range it covers.
type ReportResponse[T any] struct {
	Range reports.DateRange `json:"range"`
	Data  T                 `json:"data"`
}
