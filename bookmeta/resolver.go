package bookmeta

// Defaults substituted when a record or field is missing.
const (
	DefaultTitle  = "Unknown Title"
	DefaultAuthor = "Unknown Author"
)

// Resolve looks up each identifier and returns a display record per input,
// in input order. Identifiers absent from the index yield a record with
// the identifier preserved and default display values; no identifier is
// ever dropped.
func Resolve(ids []string, index *Index) []EnrichedRecord {
	out := make([]EnrichedRecord, 0, len(ids))
	for _, id := range ids {
		rec, _ := index.Get(id)

		enriched := EnrichedRecord{
			ASIN:          id,
			Title:         DefaultTitle,
			AuthorName:    DefaultAuthor,
			AverageRating: rec.AverageRating,
			RatingNumber:  rec.RatingNumber,
			PrimaryImage:  primaryImage(rec.PrimaryImage),
		}
		if rec.Title != nil {
			enriched.Title = *rec.Title
		}
		if rec.AuthorName != nil {
			enriched.AuthorName = *rec.AuthorName
		}

		out = append(out, enriched)
	}
	return out
}
