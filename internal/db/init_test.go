package db_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/listkeeper/internal/db"
)

func TestInitPostgres_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		dsn        string
		wantSubstr string
	}{
		{"unreachable host", "postgres://u:p@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", "ping postgres"},
		{"invalid DSN", "some=random", "ping postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			_, err := db.InitPostgres(ctx, tc.dsn, db.PoolOptions{MaxOpenConns: 2})
			if err == nil {
				t.Fatalf("InitPostgres(%q) did not return error", tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("InitPostgres(%q) error = %q; want substring %q", tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}
