// Package spatial описывает контракт пространственного индекса для поиска ближайших соседей.
//
// Индекс отбирает кандидатов по планарной метрике (градусы, см. geo.PlanarDistance).
// Итоговое расстояние для ответа считается отдельно, геодезической функцией.
package spatial

// Coord - координаты одной записи индекса
type Coord struct {
	Lat float64
	Lng float64
}

// Neighbor - найденная запись индекса.
// Pos - позиция исходной точки в группе, по которой индекс строился.
type Neighbor struct {
	Pos        int
	PlanarDist float64
}

// Index - точный k-NN индекс по планарной метрике
type Index interface {
	// Len возвращает количество записей
	Len() int

	// KNearest возвращает min(k, Len()) ближайших записей по возрастанию планарного расстояния
	KNearest(lat, lng float64, k int) []Neighbor
}

// Builder строит индекс по набору координат
type Builder func(coords []Coord) (Index, error)
