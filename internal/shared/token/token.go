// Package token provides the token cost estimator used to budget-fit
// assembled context. It is backed by tiktoken-go's cl100k_base encoding and
// degrades to a rune/word heuristic when the encoding cannot be initialized
// (e.g. offline first run before the BPE files are cached).
package token

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Estimator maps text to an approximate token count. It must be
// deterministic; the budget fitter treats it as opaque.
type Estimator func(text string) int

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

func encoding() *tiktoken.Tiktoken {
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			enc = e
		}
	})
	return enc
}

// Count returns the cl100k_base token count of text, falling back to
// Heuristic when the encoding is unavailable.
func Count(text string) int {
	if e := encoding(); e != nil {
		return len(e.Encode(text, nil, nil))
	}
	return Heuristic(text)
}

// Heuristic estimates tokens as max(runes/4, words). It never returns 0 for
// non-blank input.
func Heuristic(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	n := len([]rune(trimmed)) / 4
	if words := len(strings.Fields(trimmed)); n < words {
		n = words
	}
	if n == 0 {
		n = 1
	}
	return n
}
