// Package dataset - ядро сервиса: хранилище точек, построение индексов по категориям,
// поиск ближайших соседей и жизненный цикл единственного активного набора данных.
//
// Пакет не логирует и не знает о транспорте: ошибки возвращаются типизированными
// (ValidationError, ErrNoDataLoaded, UnknownCategoryError), их переводит вызывающий слой.
package dataset

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/poi-service/internal/spatial"
	"github.com/poi-service/internal/spatial/kdtree"
)

// CategoryAll - фильтр поиска по всем категориям
const CategoryAll = "all"

// Значения по умолчанию для количества результатов
const (
	DefaultK = 10
	MaxK     = 50
)

// Options - параметры, которые внешний слой берёт из конфигурации
type Options struct {
	DefaultK    int
	MaxK        int
	Builder     spatial.Builder
	Parallelism int
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DefaultK <= 0 {
		o.DefaultK = DefaultK
	}
	if o.MaxK <= 0 {
		o.MaxK = MaxK
	}
	if o.DefaultK > o.MaxK {
		o.DefaultK = o.MaxK
	}
	if o.Builder == nil {
		o.Builder = kdtree.Build
	}
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Snapshot - неизменяемый набор данных вместе с индексами.
// Читатели получают ссылку один раз и работают с ней до конца запроса.
type Snapshot struct {
	ID         uuid.UUID
	LoadedAt   time.Time
	Total      int
	Categories []string

	groups      map[string][]Point
	indexes     map[string]spatial.Index
	parallelism int
}

// Count возвращает количество точек в категории
func (s *Snapshot) Count(category string) int {
	return len(s.groups[category])
}

// Summary - результат успешной загрузки
type Summary struct {
	DatasetID    uuid.UUID
	TotalRecords int
	Categories   []string
	LoadedAt     time.Time
	// ReplacedID - набор, который вытеснила загрузка; uuid.Nil, если его не было
	ReplacedID uuid.UUID
}

// Stats - состояние менеджера на момент вызова
type Stats struct {
	Loaded         bool
	DatasetID      uuid.UUID
	TotalRecords   int
	Categories     []string
	CategoryCounts map[string]int
	LoadedAt       *time.Time
}

// Manager владеет единственным активным набором данных.
// Писатели (Load/Clear) сериализуются мьютексом, читатели берут снимок атомарно и не блокируются.
type Manager struct {
	opts    Options
	writeMu sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewManager создаёт пустой менеджер
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts.withDefaults()}
}

// Load валидирует строки, строит индексы и атомарно подменяет активный набор.
// При любой ошибке предыдущее состояние не меняется.
func (m *Manager) Load(columns []string, rows []Row) (Summary, error) {
	points, err := BuildPoints(columns, rows)
	if err != nil {
		return Summary{}, err
	}

	indexes, err := m.buildIndexes(points)
	if err != nil {
		return Summary{}, err
	}

	snap := &Snapshot{
		ID:          uuid.New(),
		Total:       points.Total,
		Categories:  points.Categories,
		groups:      points.Groups,
		indexes:     indexes,
		parallelism: m.opts.Parallelism,
	}

	// Индексы строятся вне блокировки: при конкурентных загрузках побеждает
	// последняя дошедшая до подмены, даже если она началась раньше других.
	m.writeMu.Lock()
	snap.LoadedAt = m.opts.Now()
	replaced := m.current.Swap(snap)
	m.writeMu.Unlock()

	summary := Summary{
		DatasetID:    snap.ID,
		TotalRecords: snap.Total,
		Categories:   append([]string(nil), snap.Categories...),
		LoadedAt:     snap.LoadedAt,
	}
	if replaced != nil {
		summary.ReplacedID = replaced.ID
	}
	return summary, nil
}

// buildIndexes строит по индексу на каждую непустую категорию параллельно
func (m *Manager) buildIndexes(points *Points) (map[string]spatial.Index, error) {
	built := make([]spatial.Index, len(points.Categories))

	var g errgroup.Group
	g.SetLimit(m.opts.Parallelism)
	for i, category := range points.Categories {
		i, category := i, category
		group := points.Groups[category]
		g.Go(func() error {
			coords := make([]spatial.Coord, len(group))
			for j, p := range group {
				coords[j] = spatial.Coord{Lat: p.Lat, Lng: p.Lng}
			}
			idx, err := m.opts.Builder(coords)
			if err != nil {
				return fmt.Errorf("build index for category %q: %w", category, err)
			}
			built[i] = idx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	indexes := make(map[string]spatial.Index, len(built))
	for i, category := range points.Categories {
		indexes[category] = built[i]
	}
	return indexes, nil
}

// Clear сбрасывает активный набор и возвращает его; повторный вызов вернет nil
func (m *Manager) Clear() *Snapshot {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.current.Swap(nil)
}

// Snapshot возвращает активный набор или nil
func (m *Manager) Snapshot() *Snapshot {
	return m.current.Load()
}

// IsLoaded сообщает, есть ли активный набор
func (m *Manager) IsLoaded() bool {
	return m.current.Load() != nil
}

// Stats возвращает статистику по одному снимку, без частичных состояний
func (m *Manager) Stats() Stats {
	snap := m.current.Load()
	if snap == nil {
		return Stats{Categories: []string{}, CategoryCounts: map[string]int{}}
	}

	counts := make(map[string]int, len(snap.groups))
	for c, g := range snap.groups {
		counts[c] = len(g)
	}
	loadedAt := snap.LoadedAt
	return Stats{
		Loaded:         true,
		DatasetID:      snap.ID,
		TotalRecords:   snap.Total,
		Categories:     append([]string(nil), snap.Categories...),
		CategoryCounts: counts,
		LoadedAt:       &loadedAt,
	}
}

// ResolveK применяет значение по умолчанию и верхнюю границу
func (m *Manager) ResolveK(k *int) int {
	if k == nil || *k <= 0 {
		return m.opts.DefaultK
	}
	if *k > m.opts.MaxK {
		return m.opts.MaxK
	}
	return *k
}

// Query ищет ближайшие точки в активном наборе.
// k == nil означает значение по умолчанию; большие значения обрезаются до MaxK.
func (m *Manager) Query(lat, lng float64, category string, k *int) ([]Result, error) {
	snap := m.current.Load()
	if snap == nil {
		return nil, ErrNoDataLoaded
	}
	return snap.Nearest(lat, lng, category, m.ResolveK(k))
}
