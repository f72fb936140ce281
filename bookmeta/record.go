package bookmeta

// Record is one metadata entry as shipped in the shard files. Display
// fields are optional; absent fields surface as defaults at resolve time.
type Record struct {
	ASIN          string   `json:"asin"`
	Title         *string  `json:"title"`
	AuthorName    *string  `json:"author_name"`
	AverageRating *float64 `json:"average_rating"`
	RatingNumber  *int64   `json:"rating_number"`
	PrimaryImage  any      `json:"primary_image"`
}

// EnrichedRecord is the frontend-facing record returned by Resolve.
// The identifier is always preserved; numeric and image fields stay null
// when unknown.
type EnrichedRecord struct {
	ASIN          string   `json:"asin"`
	Title         string   `json:"title"`
	AuthorName    string   `json:"author_name"`
	AverageRating *float64 `json:"average_rating"`
	RatingNumber  *int64   `json:"rating_number"`
	PrimaryImage  any      `json:"primary_image"`
}

// primaryImage picks a display URL from an image value. Size-variant
// mappings prefer large, then medium, small, thumbnail; anything else
// passes through unchanged.
func primaryImage(img any) any {
	variants, ok := img.(map[string]any)
	if !ok {
		return img
	}
	for _, key := range []string{"large", "medium", "small", "thumbnail"} {
		if v, present := variants[key]; present {
			return v
		}
	}
	return img
}
