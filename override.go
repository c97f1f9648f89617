package remap

// Valuer allows source types to bypass reflection-based normalization.
// When a value implements Valuer, the engine calls RemapValue and
// normalizes its result instead of walking the value's fields.
//
// RemapValue must return a JSON-like tree (maps, slices, scalars) or
// another value the engine can normalize. It must not return the receiver.
//
//	func (o Order) RemapValue() any {
//	    return map[string]any{"id": o.ID, "total": o.Total}
//	}
type Valuer interface {
	RemapValue() any
}
