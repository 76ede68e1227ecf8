package deque

// capacity is rounded up to a multiple of base
const base = 8

// ArrDeque is a fixed-capacity ring buffer. Elements are stored by value in
// one slice so Traverse walks contiguous memory.
type ArrDeque[T any] struct {
	arr []T

	// index of the front element
	start int
	// element count
	size int
	// capacity
	capacity int
}

// NewArrDeque allocates a deque holding at least capacity elements.
func NewArrDeque[T any](capacity int) *ArrDeque[T] {
	if capacity <= 0 {
		capacity = base
	}
	if remainder := capacity % base; remainder != 0 {
		capacity = capacity - remainder + base
	}
	return &ArrDeque[T]{
		arr:      make([]T, capacity),
		capacity: capacity,
	}
}

func (ad *ArrDeque[T]) Size() int {
	return ad.size
}

func (ad *ArrDeque[T]) index(i int) int {
	if i < 0 || i >= ad.size {
		panic("index out of length")
	}
	return (ad.start + i) % ad.capacity
}

func (ad *ArrDeque[T]) Get(i int) T {
	return ad.arr[ad.index(i)]
}

func (ad *ArrDeque[T]) Set(i int, v T) {
	ad.arr[ad.index(i)] = v
}

func (ad *ArrDeque[T]) Traverse(f func(i int, item *T)) {
	// two contiguous runs: start..end of slice, then the wrapped part
	first := ad.size
	if ad.start+first > ad.capacity {
		first = ad.capacity - ad.start
	}
	k := 0
	for z := ad.start; z < ad.start+first; z++ {
		f(k, &ad.arr[z])
		k++
	}
	for z := 0; z < ad.size-first; z++ {
		f(k, &ad.arr[z])
		k++
	}
}

func (ad *ArrDeque[T]) AddLast(v T) bool {
	if ad.size == ad.capacity {
		return false
	}
	ad.arr[(ad.start+ad.size)%ad.capacity] = v
	ad.size++
	return true
}

func (ad *ArrDeque[T]) RemoveLast() (T, bool) {
	var zero T
	if ad.size == 0 {
		return zero, false
	}
	z := (ad.start + ad.size - 1) % ad.capacity
	v := ad.arr[z]
	ad.arr[z] = zero
	ad.size--
	return v, true
}

func (ad *ArrDeque[T]) AddFirst(v T) bool {
	if ad.size == ad.capacity {
		return false
	}
	ad.start = (ad.start - 1 + ad.capacity) % ad.capacity
	ad.arr[ad.start] = v
	ad.size++
	return true
}

func (ad *ArrDeque[T]) RemoveFirst() (T, bool) {
	var zero T
	if ad.size == 0 {
		return zero, false
	}
	v := ad.arr[ad.start]
	ad.arr[ad.start] = zero
	ad.start = (ad.start + 1) % ad.capacity
	ad.size--
	if ad.size == 0 {
		ad.start = 0
	}
	return v, true
}

func (ad *ArrDeque[T]) IsFull() bool {
	return ad.size == ad.capacity
}

func (ad *ArrDeque[T]) IsEmpty() bool {
	return ad.size == 0
}
