package components

// List is a scrollable cursor over a page of items.
type List[T any] struct {
	Items    []T
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates a list with the given page size.
func NewList[T any](pageSize int) *List[T] {
	return &List[T]{PageSize: pageSize}
}

// SetItems replaces items and resets cursor.
func (l *List[T]) SetItems(items []T) {
	l.Items = items
	l.Cursor = 0
	l.Offset = 0
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.Items)
}

// Down moves the cursor down.
func (l *List[T]) Down() {
	if l.Cursor < len(l.Items)-1 {
		l.Cursor++
		if l.Cursor >= l.Offset+l.PageSize {
			l.Offset++
		}
	}
}

// Up moves the cursor up.
func (l *List[T]) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		if l.Cursor < l.Offset {
			l.Offset--
		}
	}
}

// Visible returns the currently visible items.
func (l *List[T]) Visible() []T {
	if len(l.Items) == 0 {
		return nil
	}
	end := l.Offset + l.PageSize
	if end > len(l.Items) {
		end = len(l.Items)
	}
	return l.Items[l.Offset:end]
}

// Selected returns the item under the cursor.
func (l *List[T]) Selected() (T, bool) {
	var zero T
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return zero, false
	}
	return l.Items[l.Cursor], true
}

// IsSelected returns true if the given absolute index is the cursor.
func (l *List[T]) IsSelected(absIdx int) bool {
	return absIdx == l.Cursor
}

// RelToAbs converts a relative (visible) index to absolute.
func (l *List[T]) RelToAbs(relIdx int) int {
	return l.Offset + relIdx
}
