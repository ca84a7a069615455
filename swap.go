package hxtoast

// SwapMode is an hx-swap strategy for the response of an Action.
//
// See https://htmx.org/attributes/hx-swap/.
type SwapMode string

const (
	// SwapOuter replaces the target element itself. Close actions use it
	// to replace the whole toast region with its re-rendered state.
	SwapOuter SwapMode = "outerHTML"

	// SwapInner replaces only the target's contents.
	SwapInner SwapMode = "innerHTML"

	// SwapDelete removes the target element and ignores the response.
	SwapDelete SwapMode = "delete"

	// SwapNone discards the response.
	SwapNone SwapMode = "none"
)
