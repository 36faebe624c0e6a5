package commands

import (
	"errors"
	"fmt"

	"vtodo/internal/todo"
)

// MaxLists is the number of lists that can be addressed by letter.
const MaxLists = 26

// ErrTooManyLists is returned when lists cannot all get a letter.
var ErrTooManyLists = errors.New("too many lists (max 26)")

// lettered returns the lists in display order, each with its letter.
func lettered(reg *todo.Registry) ([]todo.List, error) {
	lists := reg.Lists()
	if len(lists) > MaxLists {
		return nil, ErrTooManyLists
	}
	return lists, nil
}

func letterOf(i int) rune { return rune('a' + i) }

// listByLetter resolves a list letter.
func listByLetter(reg *todo.Registry, letter rune) (todo.List, error) {
	lists, err := lettered(reg)
	if err != nil {
		return nil, err
	}
	i := int(letter - 'a')
	if i < 0 || i >= len(lists) {
		return nil, fmt.Errorf("list letter not found: %c", letter)
	}
	return lists[i], nil
}
