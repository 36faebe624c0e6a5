package commands

import (
	"testing"
)

func TestParseItemRef(t *testing.T) {
	tests := []struct {
		args []string
		want ItemRef
	}{
		{[]string{"5"}, ItemRef{Num: 5}},
		{[]string{"a1"}, ItemRef{Letter: 'a', Num: 1, HasLetter: true}},
		{[]string{"b12"}, ItemRef{Letter: 'b', Num: 12, HasLetter: true}},
		{[]string{"c", "3"}, ItemRef{Letter: 'c', Num: 3, HasLetter: true}},
		{[]string{"007"}, ItemRef{Num: 7}},
	}
	for _, tt := range tests {
		ref, err := ParseItemRef(tt.args)
		if err != nil {
			t.Errorf("ParseItemRef(%q): unexpected error: %v", tt.args, err)
			continue
		}
		if ref != tt.want {
			t.Errorf("ParseItemRef(%q) = %+v, want %+v", tt.args, ref, tt.want)
		}
	}
}

func TestParseItemRef_Errors(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{nil, "item reference required"},
		{[]string{"a"}, "item reference required"},
		{[]string{"a", "x"}, "invalid item reference: a x"},
		{[]string{"A1"}, "invalid item reference: A1"},
		{[]string{"1a"}, "invalid item reference: 1a"},
		{[]string{"-1"}, "invalid item reference: -1"},
		{[]string{"ab1"}, "invalid item reference: ab1"},
		{[]string{"a١"}, "invalid item reference: a١"},
	}
	for _, tt := range tests {
		_, err := ParseItemRef(tt.args)
		if err == nil {
			t.Errorf("ParseItemRef(%q): expected error", tt.args)
			continue
		}
		if err.Error() != tt.wantErr {
			t.Errorf("ParseItemRef(%q): expected %q, got %q", tt.args, tt.wantErr, err.Error())
		}
	}
}

func TestLetterOf(t *testing.T) {
	if got := letterOf(0); got != 'a' {
		t.Errorf("letterOf(0) = %c", got)
	}
	if got := letterOf(25); got != 'z' {
		t.Errorf("letterOf(25) = %c", got)
	}
}
