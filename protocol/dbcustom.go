package protocol

import (
	"context"
	"fmt"
	"strings"
)

// customProtocol runs operator-defined statement templates. Init data names
// a config section whose keys are template names and values parameterized
// SQL; calls select a template by name and bind the remaining tokens.
type customProtocol struct {
	host       Host
	statements map[string]string
}

func (p *customProtocol) Init(host Host, initData string) bool {
	if host.Pool() == nil || initData == "" {
		return false
	}
	raw, err := host.SectionStrings(initData)
	if err != nil || len(raw) == 0 {
		return false
	}

	p.host = host
	p.statements = make(map[string]string, len(raw))
	for key, stmt := range raw {
		p.statements[strings.ToLower(key)] = stmt
	}
	return true
}

func (p *customProtocol) Call(ctx context.Context, data string) (string, error) {
	pool := p.host.Pool()
	if pool == nil {
		return "", fmt.Errorf("db_custom: no session pool")
	}

	name, args := splitArgs(data)
	stmt, ok := p.statements[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("db_custom: no statement %q", name)
	}

	if want := strings.Count(stmt, "?"); want != len(args) {
		return "", fmt.Errorf("db_custom: %s wants %d arguments, got %d", name, want, len(args))
	}

	sess, err := pool.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("db_custom: acquire session: %w", err)
	}
	defer sess.Release()

	rows, err := sess.QueryContext(ctx, stmt, args...)
	if err != nil {
		return "", fmt.Errorf("db_custom: %s: %w", name, err)
	}
	defer rows.Close()

	return renderRows(rows, true)
}
