package availability

import "sync/atomic"

// Generation счетчик запросов. Результат применяется, только если его билет
// все еще последний выданный: медленный устаревший ответ не перетирает новый
type Generation struct {
	n atomic.Uint64
}

// Next выдает новый билет и делает все предыдущие устаревшими
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// IsCurrent true, если после ticket новых билетов не выдавалось
func (g *Generation) IsCurrent(ticket uint64) bool {
	return g.n.Load() == ticket
}
