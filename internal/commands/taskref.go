package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ItemRef is a parsed item reference such as "a2" or "b 3".
type ItemRef struct {
	Letter    rune // 'a'-'z' when HasLetter
	Num       int  // 1-based position in the list
	HasLetter bool
}

// ErrItemRefRequired indicates no item reference was provided.
var ErrItemRefRequired = errors.New("item reference required")

// ParseItemRef parses an item reference from args. Accepted forms are a
// bare number ("2"), a letter followed by a number ("a2") and a letter and a
// number as separate arguments ("a 2").
func ParseItemRef(args []string) (ItemRef, error) {
	if len(args) == 0 {
		return ItemRef{}, ErrItemRefRequired
	}
	first := args[0]

	if num, ok := parseNum(first); ok {
		return ItemRef{Num: num}, nil
	}

	if first == "" || first[0] < 'a' || first[0] > 'z' {
		return ItemRef{}, fmt.Errorf("invalid item reference: %s", first)
	}
	letter := rune(first[0])

	rest := first[1:]
	if rest == "" {
		if len(args) < 2 {
			return ItemRef{}, ErrItemRefRequired
		}
		rest = args[1]
	}
	num, ok := parseNum(rest)
	if !ok {
		return ItemRef{}, fmt.Errorf("invalid item reference: %s", strings.Join(args, " "))
	}
	return ItemRef{Letter: letter, Num: num, HasLetter: true}, nil
}

func parseNum(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
