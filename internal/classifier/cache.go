package classifier

import "container/list"

// rowCache keeps the most recently used kernel rows of an SMO problem.
type rowCache struct {
	capacity int
	ll       *list.List
	items    map[int]*list.Element
	width    int
	fill     func(i int, row []float64)
}

type cacheEntry struct {
	i   int
	row []float64
}

func newRowCache(capacity, width int, fill func(i int, row []float64)) *rowCache {
	if capacity < 2 {
		capacity = 2
	}
	return &rowCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[int]*list.Element, capacity),
		width:    width,
		fill:     fill,
	}
}

// get returns row i, computing it on a miss. The slice stays valid until the
// row is evicted, which cannot happen before two other rows are requested.
func (c *rowCache) get(i int) []float64 {
	if el, ok := c.items[i]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*cacheEntry).row
	}
	var row []float64
	if c.ll.Len() >= c.capacity {
		tail := c.ll.Back()
		old := tail.Value.(*cacheEntry)
		delete(c.items, old.i)
		c.ll.Remove(tail)
		row = old.row
	} else {
		row = make([]float64, c.width)
	}
	c.fill(i, row)
	c.items[i] = c.ll.PushFront(&cacheEntry{i: i, row: row})
	return row
}
