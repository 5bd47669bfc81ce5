package packet

// Reader walks the arguments of a decoded, already validated message.
// Position 0 is always the discriminant.
type Reader struct {
	msg []any
	off int
}

func NewReader(msg []any) *Reader {
	return &Reader{msg: msg, off: 1} // skip discriminant
}

func (r *Reader) Type() Type {
	t, _ := TypeOf(r.msg)
	return t
}

// Message returns the raw message, discriminant included.
func (r *Reader) Message() []any { return r.msg }

// Int reads a number and truncates it to an int. Missing or mistyped
// values read as 0.
func (r *Reader) Int() int {
	if r.off >= len(r.msg) {
		return 0
	}
	v, _ := r.msg[r.off].(float64)
	r.off++
	return int(v)
}

// IsInt reports whether the next value is an integral number, without consuming it.
func (r *Reader) IsInt() bool {
	if r.off >= len(r.msg) {
		return false
	}
	v, ok := r.msg[r.off].(float64)
	return ok && v == float64(int(v))
}

// String reads a text value.
func (r *Reader) String() string {
	if r.off >= len(r.msg) {
		return ""
	}
	v, _ := r.msg[r.off].(string)
	r.off++
	return v
}

// Ints reads every remaining value as an int.
func (r *Reader) Ints() []int {
	out := make([]int, 0, r.Remaining())
	for r.Remaining() > 0 {
		out = append(out, r.Int())
	}
	return out
}

// Remaining returns the number of unread values.
func (r *Reader) Remaining() int {
	return len(r.msg) - r.off
}
