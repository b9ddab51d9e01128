package reports

// Content types covered by the translation report
const (
	ContentTypeEvents    = "events"
	ContentTypePages     = "pages"
	ContentTypeLocations = "locations"
)

// Export formats
const (
	FormatExcel = "excel"
	FormatCSV   = "csv"
)

// CoverageRow summarizes the translation state of one content type in one
// language of a region. Total = Translated + Missing; Translated splits
// into UpToDate, Outdated and InTranslation.
type CoverageRow struct {
	ContentType   string `json:"content_type"`
	LanguageSlug  string `json:"language_slug"`
	LanguageName  string `json:"language_name"`
	Total         int    `json:"total"`
	Translated    int    `json:"translated"`
	UpToDate      int    `json:"up_to_date"`
	Outdated      int    `json:"outdated"`
	InTranslation int    `json:"in_translation"`
	Missing       int    `json:"missing"`
}

// CoverageReport is the full report of one region
type CoverageReport struct {
	RegionID   uint          `json:"region_id"`
	RegionName string        `json:"region_name"`
	Rows       []CoverageRow `json:"rows"`
}
