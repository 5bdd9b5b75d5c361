package debugger

// Trace View Context Constants
const (
	// TraceWindowBefore is the default number of instructions to show
	// before the cursor in the trace view.
	TraceWindowBefore = 15

	// TraceWindowAfter is the default number of instructions to show
	// after the cursor in the trace view.
	TraceWindowAfter = 25
)

// DefaultTopCategories is the number of categories shown by the
// "stats" command and the TUI's category panel when no count is given.
const DefaultTopCategories = 5
