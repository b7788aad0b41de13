package sqlbuilder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// Dialect диалект SQL хранилища
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ErrUnknownDialect возвращается для неподдерживаемого драйвера
var ErrUnknownDialect = errors.New("sqlbuilder: unknown dialect")

// ParseDialect разбирает имя драйвера из конфигурации
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, s)
	}
}

// DriverName имя драйвера для sql.Open
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// SupportsSerializable поддерживает ли драйвер явный уровень изоляции
func (d Dialect) SupportsSerializable() bool {
	return d == Postgres
}

// Builder построитель запросов с плейсхолдерами под диалект
type Builder struct {
	squirrel.StatementBuilderType
	dialect Dialect
}

// New создает построитель для диалекта
func New(d Dialect) Builder {
	format := squirrel.PlaceholderFormat(squirrel.Question)
	if d == Postgres {
		format = squirrel.Dollar
	}
	return Builder{
		StatementBuilderType: squirrel.StatementBuilder.PlaceholderFormat(format),
		dialect:              d,
	}
}

// Dialect возвращает диалект построителя
func (b Builder) Dialect() Dialect {
	return b.dialect
}

// ForUpdate добавляет блокировку строк там, где диалект её поддерживает.
// В sqlite запись и так сериализована на уровне базы
func (b Builder) ForUpdate(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	if b.dialect == Postgres {
		return q.Suffix("FOR UPDATE")
	}
	return q
}
