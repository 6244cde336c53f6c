package sentiment

import "fmt"

// Chunk splits items into consecutive slices of at most limit elements.
// The chunks share the backing array of items.
func Chunk[T any](items []T, limit int) [][]T {
	if limit < 1 {
		panic(fmt.Sprintf("sentiment: chunk limit must be at least 1, got %d", limit))
	}

	chunks := make([][]T, 0, (len(items)+limit-1)/limit)
	for start := 0; start < len(items); start += limit {
		end := start + limit
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}
