package protocol

import (
	"context"
	"fmt"
)

// rawProtocol executes its data verbatim as a SQL statement on a pooled
// session and returns the rendered result set. The quoted flag selects the
// extra-quotes rendering of string cells.
type rawProtocol struct {
	host   Host
	quoted bool
}

func (p *rawProtocol) Init(host Host, _ string) bool {
	if host.Pool() == nil {
		return false
	}
	p.host = host
	return true
}

func (p *rawProtocol) Call(ctx context.Context, data string) (string, error) {
	pool := p.host.Pool()
	if pool == nil {
		return "", fmt.Errorf("db_raw: no session pool")
	}

	sess, err := pool.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("db_raw: acquire session: %w", err)
	}
	defer sess.Release()

	rows, err := sess.QueryContext(ctx, data)
	if err != nil {
		return "", fmt.Errorf("db_raw: query: %w", err)
	}
	defer rows.Close()

	return renderRows(rows, p.quoted)
}
