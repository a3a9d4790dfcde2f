package cmd

import (
	"reflect"
	"testing"
)

func TestReorderArgs_FlagsAfterPositionals(t *testing.T) {
	got := reorderArgs([]string{"old.txt", "new.txt", "--json"})
	want := []string{"--json", "old.txt", "new.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reorderArgs = %v, want %v", got, want)
	}
}

func TestReorderArgs_ValueFlagsKeepTheirValue(t *testing.T) {
	got := reorderArgs([]string{"old.txt", "--lang", "python", "new.txt"})
	want := []string{"--lang", "python", "old.txt", "new.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reorderArgs = %v, want %v", got, want)
	}
}

func TestReorderArgs_BooleanFlagsTakeNoValue(t *testing.T) {
	got := reorderArgs([]string{"--unified", "old.txt", "new.txt"})
	want := []string{"--unified", "old.txt", "new.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reorderArgs = %v, want %v", got, want)
	}
}

func TestReorderArgs_StdinDashIsPositional(t *testing.T) {
	got := reorderArgs([]string{"-", "new.txt", "--json"})
	want := []string{"--json", "-", "new.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("reorderArgs = %v, want %v", got, want)
	}
}
