package catalog

// Candidate is anything that carries a title. The upstream generator
// produces structured objects; plain strings adapt via RawTitle.
type Candidate interface {
	CandidateTitle() string
}

// TitledCandidate is the structured candidate shape produced by the
// text-generation collaborator.
type TitledCandidate struct {
	Title string `json:"title"`
}

// CandidateTitle returns the candidate's title.
func (c TitledCandidate) CandidateTitle() string { return c.Title }

// RawTitle adapts a bare string into a Candidate.
type RawTitle string

// CandidateTitle returns the string itself.
func (r RawTitle) CandidateTitle() string { return string(r) }

// Match resolves an ordered candidate list into an ordered, deduplicated
// list of catalog identifiers. Candidates whose normalized title is empty
// or absent from the index are skipped; the first occurrence of an
// identifier wins and repeats are dropped.
//
// An empty result is a valid "no recommendation" outcome, not an error.
func Match(candidates []Candidate, index *TitleIndex) []string {
	seen := make(map[string]struct{}, len(candidates))
	ids := make([]string, 0, len(candidates))

	for _, cand := range candidates {
		if cand == nil {
			continue
		}
		id, ok := index.Lookup(Normalize(cand.CandidateTitle()))
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}
