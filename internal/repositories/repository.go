// ===============================
// internal/repositories/repository.go - Shared repository helpers
// ===============================

package repositories

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// row is a typed record that can clean itself and report malformed data.
type row[T any] interface {
	*T
	Normalize()
	Valid() error
}

// keepValid normalizes every row and drops the ones that fail validation,
// logging each drop instead of handing malformed data to callers.
func keepValid[T any, P row[T]](rows []T, logger zerolog.Logger, table string) []T {
	out := rows[:0]
	for i := range rows {
		p := P(&rows[i])
		p.Normalize()
		if err := p.Valid(); err != nil {
			logger.Warn().Err(err).Str("table", table).Msg("Dropping malformed row")
			continue
		}
		out = append(out, rows[i])
	}
	return out
}

// isUUID guards primary key lookups; postgres rejects malformed uuids with
// an error, but to callers that is simply a missing row.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// likePattern turns a free-text filter into a substring ILIKE pattern.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}
