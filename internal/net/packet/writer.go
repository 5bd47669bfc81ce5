package packet

// Writer builds the flat value list of an outbound message. The first
// value is always the discriminant.
type Writer struct {
	buf []any
}

func NewWriter(t Type) *Writer {
	w := &Writer{buf: make([]any, 0, 8)}
	w.buf = append(w.buf, int(t))
	return w
}

func (w *Writer) Int(v int) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) String(v string) *Writer {
	w.buf = append(w.buf, v)
	return w
}

// Ints appends each value flat, one position per id.
func (w *Writer) Ints(vs []int) *Writer {
	for _, v := range vs {
		w.buf = append(w.buf, v)
	}
	return w
}

// IntList appends the values as one nested list.
func (w *Writer) IntList(vs []int) *Writer {
	list := make([]int, len(vs))
	copy(list, vs)
	w.buf = append(w.buf, list)
	return w
}

// Append adds already serialized values.
func (w *Writer) Append(vs ...any) *Writer {
	w.buf = append(w.buf, vs...)
	return w
}

func (w *Writer) Values() []any {
	return w.buf
}
