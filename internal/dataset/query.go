package dataset

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/poi-service/internal/pkg/geo"
)

// Result - точка с геодезическим расстоянием до места запроса
type Result struct {
	Name           string
	Category       string
	DistanceMeters float64
	Lat            float64
	Lng            float64
}

// Nearest ищет k ближайших точек в одной категории или во всех (CategoryAll).
//
// Индекс отбирает кандидатов по планарной метрике, расстояние в ответе всегда
// пересчитывается геодезически, и результат сортируется по нему.
// Для CategoryAll берутся top-k каждой категории, затем общий top-k: точка,
// не вошедшая в локальный планарный top-k своей категории, в ответ не попадёт.
func (s *Snapshot) Nearest(lat, lng float64, category string, k int) ([]Result, error) {
	if k <= 0 {
		return []Result{}, nil
	}

	if category != CategoryAll {
		if _, ok := s.indexes[category]; !ok {
			return nil, &UnknownCategoryError{
				Category:  category,
				Available: append([]string(nil), s.Categories...),
			}
		}
		results := s.searchCategory(lat, lng, category, k)
		sortResults(results)
		return results, nil
	}

	perCategory := make([][]Result, len(s.Categories))

	var g errgroup.Group
	if s.parallelism > 0 {
		g.SetLimit(s.parallelism)
	}
	for i, c := range s.Categories {
		i, c := i, c
		if min(k, s.Count(c)) == 0 {
			continue
		}
		g.Go(func() error {
			perCategory[i] = s.searchCategory(lat, lng, c, k)
			return nil
		})
	}
	_ = g.Wait()

	pool := make([]Result, 0, len(s.Categories)*k)
	for _, rs := range perCategory {
		pool = append(pool, rs...)
	}
	sortResults(pool)
	if len(pool) > k {
		pool = pool[:k]
	}
	return pool, nil
}

// searchCategory возвращает min(k, n) кандидатов категории с геодезическими расстояниями
func (s *Snapshot) searchCategory(lat, lng float64, category string, k int) []Result {
	group := s.groups[category]
	effectiveK := min(k, len(group))
	if effectiveK == 0 {
		return nil
	}

	neighbors := s.indexes[category].KNearest(lat, lng, effectiveK)
	results := make([]Result, 0, len(neighbors))
	for _, nb := range neighbors {
		p := group[nb.Pos]
		results = append(results, Result{
			Name:           p.Name,
			Category:       p.Category,
			DistanceMeters: geo.Geodesic(lat, lng, p.Lat, p.Lng),
			Lat:            p.Lat,
			Lng:            p.Lng,
		})
	}
	return results
}

// sortResults: по расстоянию, при равенстве - по категории и имени, чтобы порядок не зависел от планировщика
func sortResults(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].DistanceMeters != rs[j].DistanceMeters {
			return rs[i].DistanceMeters < rs[j].DistanceMeters
		}
		if rs[i].Category != rs[j].Category {
			return rs[i].Category < rs[j].Category
		}
		return rs[i].Name < rs[j].Name
	})
}
