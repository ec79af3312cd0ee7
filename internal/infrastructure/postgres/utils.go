package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Comercio-api/internal/domain"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx: los repos funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// modResult traduce un UPDATE ... WHERE mod_flag = $n sin filas afectadas:
// si el registro existe (y no está borrado) es un conflicto, si no, no existe.
func modResult(ctx context.Context, q Querier, tag pgconn.CommandTag, table, companyID, id string) error {
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	err := q.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1 AND company_id = $2 AND NOT del_flag)`, table),
		id, companyID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}
	if exists {
		return domain.ErrConflict
	}
	return domain.ErrNotFound
}

// softDelete marca del_flag comparando mod_flag.
func softDelete(ctx context.Context, q Querier, table, companyID, id string, modFlag int) error {
	tag, err := q.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET del_flag = TRUE, mod_flag = mod_flag + 1, updated_at = now()
			WHERE id = $1 AND company_id = $2 AND mod_flag = $3 AND NOT del_flag`, table),
		id, companyID, modFlag,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return modResult(ctx, q, tag, table, companyID, id)
}

// scanAll recorre rows aplicando scan a cada fila.
func scanAll[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// limitArg convierte limit 0 (sin límite) en NULL para LIMIT.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
