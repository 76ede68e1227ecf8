package deque

import (
	"fmt"
	"testing"
	"time"
)

func testDeque(t *testing.T, d Deque[int], capacity int) {
	for i := 0; i < capacity; i++ {
		if !d.AddLast(i) {
			t.Fatalf("AddLast %d rejected", i)
		}
	}
	if !d.IsFull() || d.AddLast(99) || d.AddFirst(99) {
		t.Fatalf("deque should be full at %d", d.Size())
	}
	if v, _ := d.RemoveLast(); v != capacity-1 {
		t.Errorf("RemoveLast = %d", v)
	}
	if v, _ := d.RemoveFirst(); v != 0 {
		t.Errorf("RemoveFirst = %d", v)
	}
	d.AddFirst(-1)
	if d.Get(0) != -1 || d.Get(1) != 1 {
		t.Errorf("front is %d, %d", d.Get(0), d.Get(1))
	}
	d.Set(1, 42)
	sum := 0
	d.Traverse(func(i int, item *int) {
		if i == 1 && *item != 42 {
			t.Errorf("Traverse index %d holds %d", i, *item)
		}
		sum += *item
	})
	// -1 + 42 + (2 .. capacity-2)
	want := -1 + 42 + (capacity-2)*(capacity-1)/2 - 1
	if sum != want {
		t.Errorf("sum = %d, want %d", sum, want)
	}
	for !d.IsEmpty() {
		d.RemoveLast()
	}
	if _, ok := d.RemoveFirst(); ok {
		t.Errorf("RemoveFirst on empty deque")
	}
}

func TestArrDeque(t *testing.T) {
	d := NewArrDeque[int](10)
	if d.capacity != 16 {
		t.Errorf("capacity rounded to %d", d.capacity)
	}
	testDeque(t, d, 16)
}

func TestArrDequeWraps(t *testing.T) {
	d := NewArrDeque[int](8)
	for i := 0; i < 6; i++ {
		d.AddLast(i)
	}
	for i := 0; i < 4; i++ {
		d.RemoveFirst()
	}
	for i := 6; i < 12; i++ {
		d.AddLast(i)
	}
	var got []int
	d.Traverse(func(_ int, item *int) { got = append(got, *item) })
	if fmt.Sprint(got) != "[4 5 6 7 8 9 10 11]" {
		t.Errorf("traverse after wrap: %v", got)
	}
	if d.Get(7) != 11 {
		t.Errorf("Get(7) = %d", d.Get(7))
	}
}

func TestListDeque(t *testing.T) {
	testDeque(t, NewListDeque[int](16), 16)
}

func TestWindow(t *testing.T) {
	w := NewWindow(3)
	for i := 1; i <= 5; i++ {
		w.Push(float64(i))
	}
	if fmt.Sprint(w.Values()) != "[3 4 5]" {
		t.Errorf("window = %v", w.Values())
	}

	// wider than the ring's rounded capacity step
	w = NewWindow(10)
	for i := 1; i <= 25; i++ {
		w.Push(float64(i))
	}
	if w.Len() != 10 || w.Values()[0] != 16 || w.Values()[9] != 25 {
		t.Errorf("window = %v", w.Values())
	}
}

func TestArrDeque_Traverse(t *testing.T) {
	deque := NewArrDeque[[64]float64](4000)
	for i := 0; i < 4000; i++ {
		deque.AddFirst([64]float64{})
	}
	start := time.Now()
	for c := 0; c < 100; c++ {
		deque.Traverse(func(z int, item *[64]float64) {
			for i := range item {
				item[i] += 1
			}
		})
	}
	fmt.Println(time.Since(start))
}

func BenchmarkArrDeque_AddFirst(b *testing.B) {
	deque := NewArrDeque[float64](4000)
	for i := 0; i < b.N; i++ {
		deque.AddFirst(1000)
		deque.RemoveFirst()
	}
}

func BenchmarkArrDeque_RemoveLast(b *testing.B) {
	deque := NewArrDeque[float64](4000)
	for i := 0; i < b.N; i++ {
		deque.AddLast(1000)
		deque.RemoveLast()
	}
}

func BenchmarkListDeque_AddFirst(b *testing.B) {
	deque := NewListDeque[float64](4000)
	for i := 0; i < b.N; i++ {
		deque.AddFirst(1000)
		deque.RemoveFirst()
	}
}

func BenchmarkListDeque_AddLast(b *testing.B) {
	deque := NewListDeque[float64](4000)
	for i := 0; i < b.N; i++ {
		deque.AddLast(1000)
		deque.RemoveLast()
	}
}
