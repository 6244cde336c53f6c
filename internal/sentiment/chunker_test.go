package sentiment

import (
	"reflect"
	"testing"
)

func TestChunk(t *testing.T) {
	for n := 0; n <= 25; n++ {
		for limit := 1; limit <= 12; limit++ {
			items := make([]int, n)
			for i := range items {
				items[i] = i
			}

			chunks := Chunk(items, limit)
			want := (n + limit - 1) / limit
			if len(chunks) != want {
				t.Fatalf("n=%d limit=%d: got %d chunks, want %d", n, limit, len(chunks), want)
			}

			var joined []int
			for i, c := range chunks {
				if len(c) == 0 || len(c) > limit {
					t.Fatalf("n=%d limit=%d: chunk %d has size %d", n, limit, i, len(c))
				}
				if i < len(chunks)-1 && len(c) != limit {
					t.Fatalf("n=%d limit=%d: only the last chunk may be short", n, limit)
				}
				joined = append(joined, c...)
			}
			if n > 0 && !reflect.DeepEqual(joined, items) {
				t.Fatalf("n=%d limit=%d: concatenation %v != %v", n, limit, joined, items)
			}
		}
	}
}

func TestChunkDoesNotLeakCapacity(t *testing.T) {
	items := []string{"a", "b", "c"}
	chunks := Chunk(items, 2)
	chunks[0] = append(chunks[0], "x")
	if items[2] != "c" {
		t.Fatalf("appending to a chunk overwrote the input: %v", items)
	}
}

func TestChunkPanicsOnBadLimit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for limit 0")
		}
	}()
	Chunk([]string{"a"}, 0)
}
