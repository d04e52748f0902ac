package database

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/fruitstock/internal/config"
)

// Queries in this package are written with '?' placeholders and rebound for
// drivers that expect numbered ones.

func (db *DB) exec(query string, args ...any) (sql.Result, error) {
	query = db.rebind(query)
	log.Trace().Str("query", query).Msg("exec")
	return db.conn.Exec(query, args...)
}

func (db *DB) query(query string, args ...any) (*sql.Rows, error) {
	query = db.rebind(query)
	log.Trace().Str("query", query).Msg("query")
	return db.conn.Query(query, args...)
}

func (db *DB) queryRow(query string, args ...any) *sql.Row {
	query = db.rebind(query)
	log.Trace().Str("query", query).Msg("query row")
	return db.conn.QueryRow(query, args...)
}

func (db *DB) rebind(query string) string {
	if db.driver != config.DriverPostgres {
		return query
	}
	return rebindNumbered(query)
}

// rebindNumbered turns every '?' into $1, $2, ... in order.
func rebindNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
