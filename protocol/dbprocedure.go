package protocol

import (
	"context"
	"fmt"
	"strings"
)

// procedureProtocol invokes a stored procedure. Data is the procedure name
// followed by colon-separated arguments, passed as bound parameters.
type procedureProtocol struct {
	host Host
}

func (p *procedureProtocol) Init(host Host, _ string) bool {
	if host.Pool() == nil {
		return false
	}
	p.host = host
	return true
}

func (p *procedureProtocol) Call(ctx context.Context, data string) (string, error) {
	pool := p.host.Pool()
	if pool == nil {
		return "", fmt.Errorf("db_procedure: no session pool")
	}

	name, args := splitArgs(data)
	if !validProcedureName(name) {
		return "", fmt.Errorf("db_procedure: bad procedure name %q", name)
	}

	placeholders := make([]string, len(args))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmt := "CALL " + name + "(" + strings.Join(placeholders, ",") + ")"

	sess, err := pool.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("db_procedure: acquire session: %w", err)
	}
	defer sess.Release()

	rows, err := sess.QueryContext(ctx, stmt, args...)
	if err != nil {
		return "", fmt.Errorf("db_procedure: call %s: %w", name, err)
	}
	defer rows.Close()

	return renderRows(rows, true)
}

// splitArgs separates the leading name from the colon-separated argument
// tail. No tail means no arguments.
func splitArgs(data string) (string, []any) {
	i := strings.IndexByte(data, ':')
	if i < 0 {
		return data, nil
	}
	parts := strings.Split(data[i+1:], ":")
	args := make([]any, len(parts))
	for j, part := range parts {
		args[j] = part
	}
	return data[:i], args
}

// validProcedureName keeps procedure invocation to plain identifiers so the
// name can be spliced into the CALL statement.
func validProcedureName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
