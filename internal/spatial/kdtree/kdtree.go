// Package kdtree - двумерное k-d дерево по (lat, lng) с листовыми бакетами.
package kdtree

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/poi-service/internal/pkg/geo"
	"github.com/poi-service/internal/spatial"
)

const (
	// maxLeafSize - верхняя граница размера листа
	maxLeafSize = 30
	// leafDivisor - размер листа растёт пропорционально группе: n / leafDivisor
	leafDivisor = 10
)

// ErrInvalidCoord возвращается при построении по NaN/Inf координате
var ErrInvalidCoord = errors.New("kdtree: invalid coordinate")

type entry struct {
	lat float64
	lng float64
	pos int
}

type node struct {
	axis  int // 0: lat, 1: lng
	split float64
	left  *node
	right *node
	// лист: entries != nil
	entries []entry
}

// Tree - k-d дерево, неизменяемое после построения
type Tree struct {
	root     *node
	size     int
	leafSize int
}

var _ spatial.Index = (*Tree)(nil)

// LeafSize вычисляет размер листа для группы из n точек
func LeafSize(n int) int {
	size := n / leafDivisor
	if size > maxLeafSize {
		size = maxLeafSize
	}
	if size < 1 {
		size = 1
	}
	return size
}

// Build строит сбалансированное дерево разбиением по медиане, O(n log n)
func Build(coords []spatial.Coord) (spatial.Index, error) {
	return New(coords)
}

// New строит дерево и возвращает конкретный тип
func New(coords []spatial.Coord) (*Tree, error) {
	entries := make([]entry, len(coords))
	for i, c := range coords {
		if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
			return nil, fmt.Errorf("%w at position %d", ErrInvalidCoord, i)
		}
		entries[i] = entry{lat: c.Lat, lng: c.Lng, pos: i}
	}

	t := &Tree{size: len(entries), leafSize: LeafSize(len(entries))}
	if len(entries) > 0 {
		t.root = t.build(entries, 0)
	}
	return t, nil
}

// Len возвращает количество точек в дереве
func (t *Tree) Len() int {
	return t.size
}

func (t *Tree) build(entries []entry, depth int) *node {
	if len(entries) <= t.leafSize {
		return &node{entries: entries}
	}

	axis := depth % 2
	mid := len(entries) / 2
	selectNth(entries, mid, axis)

	return &node{
		axis:  axis,
		split: coordOf(entries[mid], axis),
		left:  t.build(entries[:mid], depth+1),
		right: t.build(entries[mid:], depth+1),
	}
}

// KNearest - точный поиск k ближайших по планарной метрике.
// При равных расстояниях выигрывает меньшая позиция.
func (t *Tree) KNearest(lat, lng float64, k int) []spatial.Neighbor {
	if k <= 0 || t.root == nil {
		return []spatial.Neighbor{}
	}
	if k > t.size {
		k = t.size
	}

	h := make(maxHeap, 0, k)
	t.search(t.root, lat, lng, k, &h)

	out := make([]spatial.Neighbor, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		c := heap.Pop(&h).(candidate)
		out[i] = spatial.Neighbor{Pos: c.pos, PlanarDist: math.Sqrt(c.distSq)}
	}
	return out
}

func (t *Tree) search(n *node, lat, lng float64, k int, h *maxHeap) {
	if n.entries != nil {
		for _, e := range n.entries {
			c := candidate{pos: e.pos, distSq: geo.PlanarDistanceSq(lat, lng, e.lat, e.lng)}
			if h.Len() < k {
				heap.Push(h, c)
			} else if c.less((*h)[0]) {
				(*h)[0] = c
				heap.Fix(h, 0)
			}
		}
		return
	}

	q := lat
	if n.axis == 1 {
		q = lng
	}
	gap := q - n.split

	near, far := n.left, n.right
	if gap >= 0 {
		near, far = n.right, n.left
	}

	t.search(near, lat, lng, k, h)
	// равенство не отсекаем: на плоскости разреза могут лежать точки с меньшей позицией
	if h.Len() < k || gap*gap <= (*h)[0].distSq {
		t.search(far, lat, lng, k, h)
	}
}

// selectNth - in-place выбор n-го элемента по оси (quickselect с трехсторонним разбиением).
// Равные опорному значения собираются в один блок, поэтому повторяющиеся координаты
// не вырождают выбор в O(n^2). Возвращает число проходов разбиения.
func selectNth(a []entry, n, axis int) int {
	passes := 0
	lo, hi := 0, len(a)
	for hi-lo > 1 {
		passes++
		pv := coordOf(a[lo+(hi-lo)/2], axis)
		lt, gt := partition3(a[lo:hi], pv, axis)
		lt, gt = lo+lt, lo+gt
		switch {
		case n < lt:
			hi = lt
		case n >= gt:
			lo = gt
		default:
			return passes
		}
	}
	return passes
}

// partition3 раскладывает a на блоки <pv, ==pv, >pv и возвращает границы среднего [lt, gt)
func partition3(a []entry, pv float64, axis int) (lt, gt int) {
	i := 0
	gt = len(a)
	for i < gt {
		v := coordOf(a[i], axis)
		switch {
		case v < pv:
			a[lt], a[i] = a[i], a[lt]
			lt++
			i++
		case v > pv:
			gt--
			a[i], a[gt] = a[gt], a[i]
		default:
			i++
		}
	}
	return lt, gt
}

func coordOf(e entry, axis int) float64 {
	if axis == 0 {
		return e.lat
	}
	return e.lng
}

type candidate struct {
	pos    int
	distSq float64
}

// less - порядок "лучше": меньшее расстояние, затем меньшая позиция
func (c candidate) less(o candidate) bool {
	if c.distSq != o.distSq {
		return c.distSq < o.distSq
	}
	return c.pos < o.pos
}

// maxHeap держит худшего кандидата в корне
type maxHeap []candidate

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return h[j].less(h[i]) }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
