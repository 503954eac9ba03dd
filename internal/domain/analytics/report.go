package analytics

// DefaultReportLimit is the number of rows per ranking
const DefaultReportLimit = 10

// Report is the back office analytics summary
type Report struct {
	TopProducts []ProductViews `json:"top_products"`
	TopSearches []QueryCount   `json:"top_searches"`
	Totals      Totals         `json:"totals"`
}
