package bookmeta

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/bookbridge/codec"
	"github.com/klauspost/compress/zstd"
)

// maxLineSize bounds a single metadata record line (images and long
// descriptions included).
const maxLineSize = 4 * 1024 * 1024

// Index maps catalog identifiers to metadata records.
// Read-only after construction, safe for concurrent use.
type Index struct {
	records map[string]Record
}

// LoadIndex scans every shard file under dir once and builds the index.
// Shards are newline-delimited JSON (`.json`/`.jsonl`), optionally
// zstd-compressed (`.zst`). Malformed lines and records without an
// identifier are skipped, not fatal.
//
// Shard paths are sorted before scanning, so a repeated identifier
// deterministically resolves to the lexicographically latest shard.
func LoadIndex(dir string, c codec.Codec) (*Index, error) {
	if c == nil {
		c = codec.Default
	}

	shards, err := shardFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(shards) == 0 {
		return nil, fmt.Errorf("bookmeta: no shard files under %s", dir)
	}

	records := make(map[string]Record)
	for _, path := range shards {
		if err := scanShard(path, c, records); err != nil {
			return nil, err
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("bookmeta: no records loaded from %s", dir)
	}

	return &Index{records: records}, nil
}

// Get returns the record for an identifier.
func (i *Index) Get(id string) (Record, bool) {
	rec, ok := i.records[id]
	return rec, ok
}

// Len returns the number of distinct identifiers.
func (i *Index) Len() int {
	return len(i.records)
}

func shardFiles(dir string) ([]string, error) {
	var shards []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch {
		case strings.HasSuffix(path, ".json"),
			strings.HasSuffix(path, ".jsonl"),
			strings.HasSuffix(path, ".json.zst"),
			strings.HasSuffix(path, ".jsonl.zst"):
			shards = append(shards, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(shards)
	return shards, nil
}

func scanShard(path string, c codec.Codec, records map[string]Record) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("bookmeta: shard %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := c.Unmarshal([]byte(line), &rec); err != nil {
			continue // malformed line, skip
		}
		if rec.ASIN == "" {
			continue
		}
		records[rec.ASIN] = rec
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("bookmeta: shard %s: %w", path, err)
	}
	return nil
}
