package hxtoast

import "time"

// ID identifies a toast within a process. IDs are assigned by the
// registry and never reused.
type ID string

// Payload is caller-defined toast data. The registry and presenter pass
// it through without inspecting it.
type Payload map[string]any

// Strategy selects how a toast is rendered.
//
// A strategy is either a kind, resolved through the presenter's renderer
// table, or an inline renderer carried by the entry itself:
//
//	reg.Add(payload, hxtoast.Kind("rye"))
//	reg.Add(payload, hxtoast.Inline(hxtoast.RendererFunc(render)))
//
// Inline takes precedence when both are set.
type Strategy struct {
	Kind   string
	Inline Renderer
}

// Kind returns a strategy that renders through the presenter's renderer
// registered under name.
func Kind(name string) Strategy {
	return Strategy{Kind: name}
}

// Inline returns a strategy that renders with r directly.
func Inline(r Renderer) Strategy {
	return Strategy{Inline: r}
}

// String returns the kind, or "inline" for inline strategies.
func (s Strategy) String() string {
	if s.Inline != nil {
		return "inline"
	}
	return s.Kind
}

// Entry is one active toast. Entries are never modified after Add.
type Entry struct {
	ID        ID
	Payload   Payload
	Strategy  Strategy
	CreatedAt time.Time
}
