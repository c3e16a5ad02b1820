package utils

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// A Collator keeps scratch buffers, so each goroutine borrows its own.
var collators = sync.Pool{
	New: func() any { return collate.New(language.Spanish) },
}

// CompareText orders strings the way a Spanish database collation does:
// case folded first, ñ after n, accents after their base letter.
func CompareText(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	return c.CompareString(a, b)
}
