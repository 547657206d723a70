package repository

import (
	"gorm.io/gorm"
)

// LastPage asks paginate for the final page of a result set.
const LastPage = -1

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items   []T
	Page    int
	PerPage int
	Total   int64
}

func (p *Page[T]) Pages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 0
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

func (p *Page[T]) HasPrev() bool { return p.Page > 1 }

func (p *Page[T]) HasNext() bool { return p.Page < p.Pages() }

// paginate counts base, then fetches the requested page in the given order.
func paginate[T any](base *gorm.DB, order string, page, perPage int, preloads ...string) (*Page[T], error) {
	if perPage <= 0 {
		perPage = 20
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	result := &Page[T]{Page: page, PerPage: perPage, Total: total}
	if page == LastPage {
		result.Page = result.Pages()
	}
	if result.Page < 1 {
		result.Page = 1
	}

	q := base.Order(order).Offset((result.Page - 1) * perPage).Limit(perPage)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.Find(&result.Items).Error; err != nil {
		return nil, err
	}
	return result, nil
}
