package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Apurer/go-order-service/internal/domains/ordering/ports"
)

// unique_violation, https://www.postgresql.org/docs/current/errcodes-appendix.html
const uniqueViolationCode = "23505"

// translateError maps driver-level constraint violations onto the port
// sentinels the application branches on. Anything else passes through
// unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s", ports.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
