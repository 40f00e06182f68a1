package core

// CombinedSeparator joins a leaf code and title in SelectionResult.Combined.
const CombinedSeparator = " – "

// SelectionResult is the resolved leaf of a progressive selection.
type SelectionResult struct {
	Code     string `json:"code"`
	Title    string `json:"title"`
	Combined string `json:"combined"`
}

// EmptySelection is returned when no path matches the accumulated choices.
// Callers treat it as "standard not mapped".
var EmptySelection = SelectionResult{}

// NewSelectionResult builds a result with Combined set to "{code} – {title}".
func NewSelectionResult(code, title string) SelectionResult {
	return SelectionResult{
		Code:     code,
		Title:    title,
		Combined: code + CombinedSeparator + title,
	}
}

// IsEmpty reports whether the result is the empty sentinel.
func (s SelectionResult) IsEmpty() bool {
	return s == EmptySelection
}
