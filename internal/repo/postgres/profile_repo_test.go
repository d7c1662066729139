package postgres

import (
	"testing"
	"time"
)

func TestFilterArgsEscapesSearchPattern(t *testing.T) {
	q := ListingQuery{
		Search: `100% real_name\`,
		Now:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	args := q.filterArgs()
	pattern, ok := args[2].(string)
	if !ok {
		t.Fatalf("args[2] = %T, want string", args[2])
	}
	want := `%100\% real\_name\\%`
	if pattern != want {
		t.Fatalf("pattern = %q, want %q", pattern, want)
	}
}

func TestEscapeLikePassesPlainTermsThrough(t *testing.T) {
	if got := escapeLike("anna riga"); got != "anna riga" {
		t.Fatalf("escaped = %q, want unchanged", got)
	}
}
