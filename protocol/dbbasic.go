package protocol

import (
	"context"
	"fmt"
	"strconv"
)

// basicProtocol executes write statements on a pooled session and answers
// the affected-row count. Reads belong to the RAW variants.
type basicProtocol struct {
	host Host
}

func (p *basicProtocol) Init(host Host, _ string) bool {
	if host.Pool() == nil {
		return false
	}
	p.host = host
	return true
}

func (p *basicProtocol) Call(ctx context.Context, data string) (string, error) {
	pool := p.host.Pool()
	if pool == nil {
		return "", fmt.Errorf("db_basic: no session pool")
	}

	sess, err := pool.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("db_basic: acquire session: %w", err)
	}
	defer sess.Release()

	res, err := sess.ExecContext(ctx, data)
	if err != nil {
		return "", fmt.Errorf("db_basic: exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// ODBC drivers without row counts still report success.
		affected = 0
	}
	return strconv.FormatInt(affected, 10), nil
}
