package util

const DefaultPageSize = 10

// Calculate clamps a page/size pair into a from/limit search window.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}
