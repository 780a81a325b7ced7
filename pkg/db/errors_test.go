package db

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"pq lock timeout", &pq.Error{Code: "55P03"}, true},
		{"bad connection", driver.ErrBadConn, true},
		{"wrapped bad connection", fmt.Errorf("create result: %w", driver.ErrBadConn), true},
		{"sqlite busy", errors.New("database is locked"), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"check violation", &pgconn.PgError{Code: "23514"}, false},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"plain error", errors.New("no such table: spin_results"), false},
	}
	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Errorf("%s: IsTransient = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsUniqueViolationByCode(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "agents_slug_key"}
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected unique violation without constraint filter")
	}
	if !IsUniqueViolation(err, "agents_slug_key") {
		t.Fatal("expected unique violation for matching constraint")
	}
	if IsUniqueViolation(err, "products_slug_key") {
		t.Fatal("constraint filter matched the wrong constraint")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23514"}, "") {
		t.Fatal("check violation misread as unique violation")
	}
}
