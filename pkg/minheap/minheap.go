// Package minheap implements a binary min-heap of int32 keys, each carrying
// an integer tag that identifies the key's source.
//
// Keys and tags are stored in parallel slices so the sift loops touch a
// dense []int32. The tag rides along with its key but never takes part in
// comparisons; the order of equal keys is unspecified.
package minheap

const defaultCapacity = 1024

// Heap is an array-backed binary min-heap ordered by key.
// The zero value is ready to use. Heap is not safe for concurrent use.
type Heap struct {
	keys []int32
	tags []int
}

// New returns a heap with room for capacity entries before it grows.
func New(capacity int) *Heap {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Heap{
		keys: make([]int32, 0, capacity),
		tags: make([]int, 0, capacity),
	}
}

// Len returns the number of entries.
func (h *Heap) Len() int { return len(h.keys) }

// IsEmpty reports whether the heap holds no entries.
func (h *Heap) IsEmpty() bool { return len(h.keys) == 0 }

// Insert adds (key, tag) to the heap.
func (h *Heap) Insert(key int32, tag int) {
	h.keys = append(h.keys, key)
	h.tags = append(h.tags, tag)
	h.siftUp(len(h.keys) - 1)
}

// PeekMin returns the smallest key and its tag without removing it.
// ok is false when the heap is empty.
func (h *Heap) PeekMin() (key int32, tag int, ok bool) {
	if len(h.keys) == 0 {
		return 0, 0, false
	}
	return h.keys[0], h.tags[0], true
}

// RemoveMin removes and returns the smallest key and its tag.
// ok is false when the heap is empty.
func (h *Heap) RemoveMin() (key int32, tag int, ok bool) {
	n := len(h.keys)
	if n == 0 {
		return 0, 0, false
	}
	key, tag = h.keys[0], h.tags[0]

	last := n - 1
	h.keys[0], h.tags[0] = h.keys[last], h.tags[last]
	h.keys = h.keys[:last]
	h.tags = h.tags[:last]
	if last > 0 {
		h.siftDown(0)
	}
	return key, tag, true
}

// ReplaceMin overwrites the root with (key, tag) and restores heap order.
// It is equivalent to RemoveMin followed by Insert, with one sift instead
// of two. The heap must not be empty.
func (h *Heap) ReplaceMin(key int32, tag int) {
	h.keys[0], h.tags[0] = key, tag
	h.siftDown(0)
}

func (h *Heap) siftUp(i int) {
	key, tag := h.keys[i], h.tags[i]
	for i > 0 {
		parent := (i - 1) / 2
		if h.keys[parent] <= key {
			break
		}
		h.keys[i], h.tags[i] = h.keys[parent], h.tags[parent]
		i = parent
	}
	h.keys[i], h.tags[i] = key, tag
}

func (h *Heap) siftDown(i int) {
	n := len(h.keys)
	key, tag := h.keys[i], h.tags[i]
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if right := child + 1; right < n && h.keys[right] < h.keys[child] {
			child = right
		}
		if key <= h.keys[child] {
			break
		}
		h.keys[i], h.tags[i] = h.keys[child], h.tags[child]
		i = child
	}
	h.keys[i], h.tags[i] = key, tag
}
