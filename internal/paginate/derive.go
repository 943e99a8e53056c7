package paginate

import (
	"cmp"
	"slices"

	"github.com/dustin/go-humanize"
)

// Stats summarises a loaded list.
type Stats struct {
	Count      int
	TotalBytes int64
	// TotalSize is TotalBytes for display, e.g. "4.2 MB".
	TotalSize string
}

func ComputeStats[T any](items []T, sizeOf func(T) int64) Stats {
	var total int64
	for _, v := range items {
		total += max(sizeOf(v), 0)
	}
	return Stats{Count: len(items), TotalBytes: total, TotalSize: humanize.Bytes(uint64(total))}
}

type Group[T any] struct {
	Key   string
	Items []T
}

// GroupBy buckets items by key, sorted by key. Items keep their list order
// within a group.
func GroupBy[T any](items []T, keyOf func(T) string) []Group[T] {
	idx := map[string]int{}
	var groups []Group[T]
	for _, v := range items {
		k := keyOf(v)
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group[T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, v)
	}
	slices.SortFunc(groups, func(a, b Group[T]) int { return cmp.Compare(a.Key, b.Key) })
	return groups
}
