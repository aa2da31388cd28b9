package dataset

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poi-service/internal/pkg/geo"
	"github.com/poi-service/internal/spatial"
)

func intPtr(v int) *int { return &v }

func taipeiRows() []Row {
	return []Row{
		row("A", "landmark", "25.0339", "121.5645"),
		row("B", "landmark", "25.0347", "121.5217"),
		row("C", "museum", "25.1023", "121.5487"),
	}
}

func loadedManager(t *testing.T, rows []Row) *Manager {
	t.Helper()
	m := NewManager(Options{})
	_, err := m.Load(allColumns, rows)
	require.NoError(t, err)
	return m
}

func names(rs []Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestManager_Load(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(Options{Now: func() time.Time { return now }})

	summary, err := m.Load(allColumns, taipeiRows())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRecords)
	assert.Equal(t, []string{"landmark", "museum"}, summary.Categories)
	assert.Equal(t, now, summary.LoadedAt)
	assert.NotEqual(t, uuid.Nil, summary.DatasetID)
	assert.True(t, m.IsLoaded())

	snap := m.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 2, snap.Count("landmark"))
	assert.Equal(t, 1, snap.Count("museum"))
	assert.Equal(t, 0, snap.Count("bogus"))
}

func TestManager_FailedLoadKeepsPreviousDataset(t *testing.T) {
	m := loadedManager(t, taipeiRows())
	before := m.Snapshot()

	_, err := m.Load(allColumns, []Row{row("bad", "x", "200", "0")})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	assert.Same(t, before, m.Snapshot())
	assert.Equal(t, 3, m.Stats().TotalRecords)
}

func TestManager_FailedLoadOnEmptyManager(t *testing.T) {
	m := NewManager(Options{})

	_, err := m.Load([]string{"name"}, []Row{row("a", "b", "1", "2")})
	require.Error(t, err)
	assert.False(t, m.IsLoaded())
}

func TestManager_IndexBuildFailure(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(Options{Builder: func([]spatial.Coord) (spatial.Index, error) { return nil, boom }})

	_, err := m.Load(allColumns, taipeiRows())
	require.ErrorIs(t, err, boom)
	assert.False(t, IsValidation(err))
	assert.False(t, m.IsLoaded())
}

func TestManager_ReloadReplacesDataset(t *testing.T) {
	m := loadedManager(t, taipeiRows())
	first := m.Stats().DatasetID

	_, err := m.Load(allColumns, []Row{row("Cafe", "cafe", "1", "1")})
	require.NoError(t, err)

	stats := m.Stats()
	assert.NotEqual(t, first, stats.DatasetID)
	assert.Equal(t, []string{"cafe"}, stats.Categories)
	assert.Equal(t, 1, stats.TotalRecords)

	_, err = m.Query(0, 0, "landmark", nil)
	assert.True(t, IsUnknownCategory(err))
}

func TestManager_ClearIsIdempotent(t *testing.T) {
	m := loadedManager(t, taipeiRows())
	loaded := m.Snapshot()

	assert.Same(t, loaded, m.Clear())
	assert.Nil(t, m.Clear())

	stats := m.Stats()
	assert.False(t, stats.Loaded)
	assert.Zero(t, stats.TotalRecords)
	assert.Empty(t, stats.Categories)
	assert.Nil(t, stats.LoadedAt)
	assert.False(t, m.IsLoaded())
}

func TestManager_LoadReportsReplacedDataset(t *testing.T) {
	m := NewManager(Options{})

	first, err := m.Load(allColumns, taipeiRows())
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, first.ReplacedID)

	second, err := m.Load(allColumns, taipeiRows())
	require.NoError(t, err)
	assert.Equal(t, first.DatasetID, second.ReplacedID)
}

func TestManager_ConcurrentLoadsReplaceEachDatasetOnce(t *testing.T) {
	m := NewManager(Options{})

	const loads = 16
	summaries := make([]Summary, loads)
	var wg sync.WaitGroup
	for i := 0; i < loads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Load(allColumns, taipeiRows())
			assert.NoError(t, err)
			summaries[i] = s
		}(i)
	}
	wg.Wait()

	// каждый набор, кроме активного, вытеснен ровно один раз
	replaced := make(map[uuid.UUID]int)
	for _, s := range summaries {
		if s.ReplacedID != uuid.Nil {
			replaced[s.ReplacedID]++
		}
	}
	active := m.Snapshot().ID
	assert.Len(t, replaced, loads-1)
	for _, s := range summaries {
		if s.DatasetID == active {
			assert.Zero(t, replaced[s.DatasetID])
		} else {
			assert.Equal(t, 1, replaced[s.DatasetID])
		}
	}
}

func TestManager_Stats(t *testing.T) {
	m := loadedManager(t, taipeiRows())

	stats := m.Stats()
	assert.True(t, stats.Loaded)
	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, []string{"landmark", "museum"}, stats.Categories)
	assert.Equal(t, map[string]int{"landmark": 2, "museum": 1}, stats.CategoryCounts)
	require.NotNil(t, stats.LoadedAt)
}

func TestManager_ResolveK(t *testing.T) {
	m := NewManager(Options{DefaultK: 10, MaxK: 50})

	assert.Equal(t, 10, m.ResolveK(nil))
	assert.Equal(t, 10, m.ResolveK(intPtr(0)))
	assert.Equal(t, 3, m.ResolveK(intPtr(3)))
	assert.Equal(t, 50, m.ResolveK(intPtr(500)))
}

func TestQuery_NoDataLoaded(t *testing.T) {
	m := NewManager(Options{})

	_, err := m.Query(25.0340, 121.5640, "landmark", nil)
	assert.ErrorIs(t, err, ErrNoDataLoaded)
}

func TestQuery_UnknownCategory(t *testing.T) {
	m := loadedManager(t, taipeiRows())

	_, err := m.Query(25.0340, 121.5640, "bogus_type", intPtr(5))

	var uerr *UnknownCategoryError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "bogus_type", uerr.Category)
	assert.Equal(t, []string{"landmark", "museum"}, uerr.Available)
	assert.Contains(t, err.Error(), "landmark, museum")
}

func TestQuery_SingleCategory(t *testing.T) {
	m := loadedManager(t, taipeiRows())

	results, err := m.Query(25.0340, 121.5640, "landmark", intPtr(2))
	require.NoError(t, err)

	require.Equal(t, []string{"A", "B"}, names(results))
	assert.Less(t, results[0].DistanceMeters, results[1].DistanceMeters)
	assert.Equal(t, "landmark", results[0].Category)
	assert.InDelta(t, 51.66, results[0].DistanceMeters, 0.1)
}

func TestQuery_AllCategories(t *testing.T) {
	m := loadedManager(t, taipeiRows())

	results, err := m.Query(25.0340, 121.5640, CategoryAll, intPtr(3))
	require.NoError(t, err)

	require.Equal(t, []string{"A", "B", "C"}, names(results))
	assert.Less(t, results[0].DistanceMeters, results[1].DistanceMeters)
	assert.Less(t, results[1].DistanceMeters, results[2].DistanceMeters)
}

func TestQuery_KLargerThanAvailable(t *testing.T) {
	m := loadedManager(t, taipeiRows())

	results, err := m.Query(25.0340, 121.5640, "museum", intPtr(40))
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = m.Query(25.0340, 121.5640, CategoryAll, intPtr(40))
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestQuery_ExactPointRoundTrip(t *testing.T) {
	m := loadedManager(t, taipeiRows())

	results, err := m.Query(25.1023, 121.5487, CategoryAll, intPtr(1))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "C", results[0].Name)
	assert.InDelta(t, 0, results[0].DistanceMeters, 1e-6)
}

func TestQuery_KIsClamped(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	rows := make([]Row, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, row(fmt.Sprintf("p%d", i), "cafe",
			fmt.Sprintf("%f", 25+r.Float64()), fmt.Sprintf("%f", 121+r.Float64())))
	}
	m := NewManager(Options{DefaultK: 10, MaxK: 50})
	_, err := m.Load(allColumns, rows)
	require.NoError(t, err)

	results, err := m.Query(25.5, 121.5, "cafe", nil)
	require.NoError(t, err)
	assert.Len(t, results, 10)

	results, err = m.Query(25.5, 121.5, "cafe", intPtr(100))
	require.NoError(t, err)
	assert.Len(t, results, 50)
}

func TestQuery_ResultsSortedAndMatchLinearScan(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	categories := []string{"cafe", "hotel", "park", "school"}
	rows := make([]Row, 0, 2000)
	for i := 0; i < 2000; i++ {
		rows = append(rows, row(fmt.Sprintf("p%d", i), categories[i%len(categories)],
			fmt.Sprintf("%f", 24.5+r.Float64()), fmt.Sprintf("%f", 121+r.Float64())))
	}
	m := loadedManager(t, rows)
	snap := m.Snapshot()

	for q := 0; q < 20; q++ {
		lat, lng := 24.5+r.Float64(), 121+r.Float64()
		for _, c := range append([]string{CategoryAll}, categories...) {
			results, err := m.Query(lat, lng, c, intPtr(15))
			require.NoError(t, err)
			require.Len(t, results, 15)

			assert.True(t, sort.SliceIsSorted(results, func(i, j int) bool {
				return results[i].DistanceMeters < results[j].DistanceMeters
			}))
			for _, res := range results {
				assert.GreaterOrEqual(t, res.DistanceMeters, 0.0)
				assert.InDelta(t, geo.Geodesic(lat, lng, res.Lat, res.Lng), res.DistanceMeters, 1e-9)
				if c != CategoryAll {
					assert.Equal(t, c, res.Category)
				}
			}
		}

		// планарный top-k одной категории совпадает с линейным перебором
		group := snap.groups["park"]
		linear := make([]Point, len(group))
		copy(linear, group)
		sort.SliceStable(linear, func(i, j int) bool {
			return geo.PlanarDistanceSq(lat, lng, linear[i].Lat, linear[i].Lng) <
				geo.PlanarDistanceSq(lat, lng, linear[j].Lat, linear[j].Lng)
		})
		got := snap.searchCategory(lat, lng, "park", 5)
		want := make(map[string]bool, 5)
		for _, p := range linear[:5] {
			want[p.Name] = true
		}
		for _, res := range got {
			assert.True(t, want[res.Name], "unexpected candidate %s", res.Name)
		}
	}
}

func TestQuery_ConcurrentWithReload(t *testing.T) {
	m := loadedManager(t, taipeiRows())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				results, err := m.Query(25.0340, 121.5640, CategoryAll, intPtr(3))
				if err != nil {
					assert.ErrorIs(t, err, ErrNoDataLoaded)
					continue
				}
				// читатель видит либо старый набор целиком, либо новый
				assert.Contains(t, []int{1, 3}, len(results))
			}
		}()
	}

	for j := 0; j < 50; j++ {
		if j%2 == 0 {
			_, err := m.Load(allColumns, []Row{row("Only", "cafe", "25", "121")})
			require.NoError(t, err)
		} else {
			_, err := m.Load(allColumns, taipeiRows())
			require.NoError(t, err)
		}
		if j%10 == 0 {
			m.Clear()
		}
	}
	wg.Wait()
}
