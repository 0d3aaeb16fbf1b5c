package pagination

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Page is an offset-based page request: zero-based number + size.
type Page struct {
	Number int
	Size   int
}

func New(number, size int) Page {
	if number < 0 {
		number = 0
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int { return p.Number * p.Size }
func (p Page) Limit() int  { return p.Size }

// Paged carries one page of results plus enough totals for clients to page.
type Paged[T any] struct {
	Content       []T `json:"content"`
	Number        int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

func NewPaged[T any](content []T, p Page, total int) Paged[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if p.Size > 0 {
		pages = (total + p.Size - 1) / p.Size
	}
	return Paged[T]{
		Content:       content,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
