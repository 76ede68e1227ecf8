/**
 *
 * Double-ended queues: the ring buffer backs the bounded residual window of
 * the outer iteration, the linked list reorders streamed rows for plotting.
 *
 */

package deque

type Deque[T any] interface {
	// number of elements
	Size() int

	// element at index i, counted from the front
	Get(i int) T

	// replace the element at index i
	Set(i int, v T)

	// front to back
	Traverse(f func(i int, item *T))

	// append at the back, false when full
	AddLast(v T) bool

	// remove from the back
	RemoveLast() (T, bool)

	// prepend at the front, false when full
	AddFirst(v T) bool

	// remove from the front
	RemoveFirst() (T, bool)

	IsFull() bool

	IsEmpty() bool
}
