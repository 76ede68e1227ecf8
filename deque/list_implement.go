package deque

// ListDeque is a doubly linked deque with sentinel head and tail nodes. A
// capacity of 0 means unbounded.
type ListDeque[T any] struct {
	head *node[T]
	tail *node[T]

	size     int
	capacity int
}

type node[T any] struct {
	val  T
	pre  *node[T]
	next *node[T]
}

func NewListDeque[T any](capacity int) *ListDeque[T] {
	head := &node[T]{}
	tail := &node[T]{}
	head.next = tail
	tail.pre = head

	return &ListDeque[T]{
		head:     head,
		tail:     tail,
		capacity: capacity,
	}
}

func (ld *ListDeque[T]) Size() int {
	return ld.size
}

func (ld *ListDeque[T]) at(i int) *node[T] {
	if i < 0 || i >= ld.size {
		panic("index out of length")
	}
	// walk from the nearer end
	if i < ld.size/2 {
		iter := ld.head.next
		for k := 0; k < i; k++ {
			iter = iter.next
		}
		return iter
	}
	iter := ld.tail.pre
	for k := ld.size - 1; k > i; k-- {
		iter = iter.pre
	}
	return iter
}

func (ld *ListDeque[T]) Get(i int) T {
	return ld.at(i).val
}

func (ld *ListDeque[T]) Set(i int, v T) {
	ld.at(i).val = v
}

func (ld *ListDeque[T]) Traverse(f func(i int, item *T)) {
	k := 0
	for iter := ld.head.next; iter != ld.tail; iter = iter.next {
		f(k, &iter.val)
		k++
	}
}

func (ld *ListDeque[T]) insertAfter(at *node[T], v T) bool {
	if ld.IsFull() {
		return false
	}
	n := &node[T]{val: v, pre: at, next: at.next}
	at.next.pre = n
	at.next = n
	ld.size++
	return true
}

func (ld *ListDeque[T]) remove(n *node[T]) T {
	n.pre.next = n.next
	n.next.pre = n.pre
	ld.size--
	return n.val
}

func (ld *ListDeque[T]) AddLast(v T) bool {
	return ld.insertAfter(ld.tail.pre, v)
}

func (ld *ListDeque[T]) RemoveLast() (T, bool) {
	if ld.size == 0 {
		var zero T
		return zero, false
	}
	return ld.remove(ld.tail.pre), true
}

func (ld *ListDeque[T]) AddFirst(v T) bool {
	return ld.insertAfter(ld.head, v)
}

func (ld *ListDeque[T]) RemoveFirst() (T, bool) {
	if ld.size == 0 {
		var zero T
		return zero, false
	}
	return ld.remove(ld.head.next), true
}

func (ld *ListDeque[T]) IsFull() bool {
	return ld.capacity > 0 && ld.size == ld.capacity
}

func (ld *ListDeque[T]) IsEmpty() bool {
	return ld.size == 0
}
