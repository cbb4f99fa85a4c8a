package repository

import "testing"

func TestPrefixMatchConditionByDialect(t *testing.T) {
	if got := prefixMatchConditionByDialect("sqlite", "name"); got != `name LIKE ? ESCAPE '\'` {
		t.Fatalf("sqlite condition mismatch, got %s", got)
	}
	if got := prefixMatchConditionByDialect("postgres", "name"); got != `name ILIKE ? ESCAPE '\'` {
		t.Fatalf("postgres condition mismatch, got %s", got)
	}
	if got := prefixMatchCondition(nil, "name"); got != `name LIKE ? ESCAPE '\'` {
		t.Fatalf("nil db should default to sqlite, got %s", got)
	}
}

func TestPrefixLikeArgEscapesWildcards(t *testing.T) {
	if got := prefixLikeArg(" 50%_off "); got != `50\%\_off%` {
		t.Fatalf("like arg mismatch, got %s", got)
	}
}
