package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"
)

// sqlOpenFn wraps sql.Open so tests can replace it with a stub implementation.
var sqlOpenFn = sql.Open

// PoolConfig sizes a session pool. MinSessions caps how many idle sessions
// are kept open, MaxSessions is the pooled ceiling; acquires beyond the
// ceiling synthesize an ad-hoc overflow session instead of queueing behind the
// pool. Sessions are opened on demand: the pool does not open MinSessions
// sessions up front and does not hold them open as a floor.
type PoolConfig struct {
	Info        ConnInfo
	MinSessions int
	MaxSessions int
	// IdleTime is the number of seconds an idle pooled session may survive
	// before it is closed. Every idle session past that age is closed, including
	// those within MinSessions.
	IdleTime int
}

// Pool hands out database sessions of a single engine kind. Acquisition is
// non-blocking with respect to the pool bound: when every pooled slot is taken
// the caller still gets a session, opened fresh from the cached connection
// settings and torn down on release.
type Pool struct {
	connector Connector
	info      ConnInfo
	connStr   string
	dsn       string
	shared    *sql.DB
	slots     chan struct{}
	overflows atomic.Uint64
	closed    atomic.Bool
}

// NewPool opens and verifies a session pool for cfg. MinSessions below 1 is
// raised to 1; MaxSessions below MinSessions is raised to MinSessions.
func NewPool(cfg PoolConfig) (*Pool, error) {
	connector, err := getConnector(cfg.Info.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Info.Kind, err)
	}

	minSessions := cfg.MinSessions
	if minSessions < 1 {
		minSessions = 1
	}
	maxSessions := cfg.MaxSessions
	if maxSessions < minSessions {
		maxSessions = minSessions
	}

	dsn, err := connector.DataSourceName(cfg.Info)
	if err != nil {
		return nil, fmt.Errorf("build dsn: %w", err)
	}

	handle, err := sqlOpenFn(connector.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Info.Kind, err)
	}
	handle.SetMaxOpenConns(maxSessions)
	handle.SetMaxIdleConns(minSessions)
	if cfg.IdleTime > 0 {
		handle.SetConnMaxIdleTime(time.Duration(cfg.IdleTime) * time.Second)
	}

	if err := handle.Ping(); err != nil {
		handle.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Info.Kind, err)
	}

	p := &Pool{
		connector: connector,
		info:      cfg.Info,
		connStr:   cfg.Info.ConnectionString(),
		dsn:       dsn,
		shared:    handle,
		slots:     make(chan struct{}, maxSessions),
	}
	for i := 0; i < maxSessions; i++ {
		p.slots <- struct{}{}
	}
	return p, nil
}

// Acquire returns a session, drawing from the pool when a slot is free and
// falling back to a fresh ad-hoc session otherwise. The caller must Release
// the session on every path.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	var s *Session
	select {
	case <-p.slots:
		conn, err := p.shared.Conn(ctx)
		if err != nil {
			p.slots <- struct{}{}
			return nil, err
		}
		s = &Session{pool: p, conn: conn}
	default:
		// Every pooled slot is busy. A sync protocol call arriving while all
		// workers hold sessions must still be served.
		adhoc, err := sqlOpenFn(p.connector.DriverName(), p.dsn)
		if err != nil {
			return nil, err
		}
		adhoc.SetMaxOpenConns(1)
		p.overflows.Add(1)
		s = &Session{pool: p, adhoc: adhoc}
	}

	if err := s.SetProperty("maxRetryAttempts", 100); err != nil && err != ErrNotSupported {
		s.Release()
		return nil, err
	}
	return s, nil
}

// Kind returns the engine kind the pool serves.
func (p *Pool) Kind() Kind {
	return p.info.Kind
}

// ConnectionString returns the cached legacy-form connection settings.
func (p *Pool) ConnectionString() string {
	return p.connStr
}

// Stats is a point-in-time snapshot for monitoring.
type Stats struct {
	Kind      Kind
	Open      int
	InUse     int
	Idle      int
	Overflows uint64
}

// Stats reports the pool's current usage.
func (p *Pool) Stats() Stats {
	s := p.shared.Stats()
	return Stats{
		Kind:      p.info.Kind,
		Open:      s.OpenConnections,
		InUse:     s.InUse,
		Idle:      s.Idle,
		Overflows: p.overflows.Load(),
	}
}

// Close shuts the pool down. Outstanding sessions keep working; new acquires
// fail with ErrPoolClosed.
func (p *Pool) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.shared.Close()
}

// Session is a checked-out database connection. Pooled sessions return their
// slot on Release; overflow sessions close their private handle instead.
type Session struct {
	pool     *Pool
	conn     *sql.Conn
	adhoc    *sql.DB
	props    map[string]int
	released atomic.Bool
}

// Pooled reports whether the session came from the bounded pool rather than
// the overflow path.
func (s *Session) Pooled() bool {
	return s.conn != nil
}

// SetProperty applies an engine tunable to the session. Engines that do not
// accept the property answer ErrNotSupported, which callers tolerate.
func (s *Session) SetProperty(name string, value int) error {
	if !s.pool.connector.SupportsProperty(name) {
		return ErrNotSupported
	}
	if s.props == nil {
		s.props = make(map[string]int)
	}
	s.props[name] = value
	return nil
}

// QueryContext runs a row-returning statement on the session.
func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.conn != nil {
		return s.conn.QueryContext(ctx, query, args...)
	}
	return s.adhoc.QueryContext(ctx, query, args...)
}

// ExecContext runs a statement that returns no rows.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.conn != nil {
		return s.conn.ExecContext(ctx, query, args...)
	}
	return s.adhoc.ExecContext(ctx, query, args...)
}

// Release returns the session to the pool, or tears it down when it was an
// overflow session. Releasing twice is a no-op.
func (s *Session) Release() {
	if s.released.Swap(true) {
		return
	}
	if s.conn != nil {
		s.conn.Close()
		s.pool.slots <- struct{}{}
		return
	}
	s.adhoc.Close()
}
