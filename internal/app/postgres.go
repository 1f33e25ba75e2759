package app

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/afl-dashboard/internal/config"
)

const (
	preparedBinaryParam = "disable_prepared_binary_result"
	maxTracedQueryLen   = 512
	postgresPingTimeout = 5 * time.Second
)

func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	dsn := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), postgresPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return db, nil
}

// NormalizeDBURL turns off binary results for prepared statements so the
// driver works behind transaction-mode poolers. Both URL and key=value DSNs
// are accepted; an explicit setting in dsn always wins.
func NormalizeDBURL(dsn string, disablePreparedBinary bool) string {
	dsn = strings.TrimSpace(dsn)
	if !disablePreparedBinary || dsn == "" {
		return dsn
	}

	if !isURLDSN(dsn) {
		if _, ok := dsnField(dsn, preparedBinaryParam); ok {
			return dsn
		}
		return dsn + " " + preparedBinaryParam + "=yes"
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	q := u.Query()
	if q.Has(preparedBinaryParam) {
		return dsn
	}
	q.Set(preparedBinaryParam, "yes")
	u.RawQuery = q.Encode()
	return u.String()
}

func dbNameFromURL(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if isURLDSN(dsn) {
		u, err := url.Parse(dsn)
		if err != nil {
			return ""
		}
		return strings.Trim(u.Path, "/ ")
	}
	name, _ := dsnField(dsn, "dbname")
	return name
}

func isURLDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func dsnField(dsn, key string) (string, bool) {
	for _, field := range strings.Fields(dsn) {
		k, v, ok := strings.Cut(field, "=")
		if ok && k == key {
			return strings.Trim(v, `"'`), true
		}
	}
	return "", false
}

// traceQuery drops line comments and folds whitespace so span names stay
// readable.
func traceQuery(query string) string {
	var b strings.Builder
	for _, line := range strings.Split(query, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		for _, word := range strings.Fields(line) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word)
		}
	}

	out := b.String()
	if len(out) <= maxTracedQueryLen {
		return out
	}
	cut := maxTracedQueryLen
	for cut > 0 && !utf8RuneStart(out[cut]) {
		cut--
	}
	return out[:cut] + "..."
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }
