package similarity

import "sort"

// NeighborSource answers top-n neighbor queries for a catalog identifier.
// *Index is the production implementation.
type NeighborSource interface {
	Neighbors(id string, n int) []Scored
}

// RerankOptions controls the multi-seed merge.
type RerankOptions struct {
	// TopPerSeed is the neighbor fanout fetched for each seed.
	TopPerSeed int
	// FinalK caps the merged result length.
	FinalK int
	// IncludeSeeds forces every seed into the pool at score 1.0,
	// regardless of MinSimilarity.
	IncludeSeeds bool
	// MinSimilarity discards neighbors scoring strictly below it.
	MinSimilarity float32
}

// DefaultRerankOptions mirror the production defaults.
var DefaultRerankOptions = RerankOptions{
	TopPerSeed:    50,
	FinalK:        10,
	IncludeSeeds:  true,
	MinSimilarity: 0.8,
}

// Rerank merges per-seed neighbor lists into one globally ranked,
// deduplicated, thresholded top-K identifier list.
//
// Each identifier keeps the best score seen across all seeds. Ties are
// broken by first-insertion order (seeds before neighbors, earlier seeds
// before later ones), which makes the partial sort fully reproducible.
// A seed absent from the source contributes no neighbors; that is not an
// error. An empty seed list returns nil without querying the source.
func Rerank(seedIDs []string, source NeighborSource, opts RerankOptions) []string {
	if len(seedIDs) == 0 || opts.FinalK <= 0 {
		return nil
	}

	type entry struct {
		id    string
		score float32
	}

	var entries []entry
	pos := make(map[string]int)

	upsert := func(id string, score float32) {
		if i, ok := pos[id]; ok {
			if score > entries[i].score {
				entries[i].score = score
			}
			return
		}
		pos[id] = len(entries)
		entries = append(entries, entry{id: id, score: score})
	}

	for _, seed := range seedIDs {
		if opts.IncludeSeeds {
			upsert(seed, 1.0)
		}
		for _, nb := range source.Neighbors(seed, opts.TopPerSeed) {
			if nb.Score < opts.MinSimilarity {
				continue
			}
			upsert(nb.ID, nb.Score)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	k := opts.FinalK
	if k > len(entries) {
		k = len(entries)
	}

	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = entries[i].id
	}
	return out
}
