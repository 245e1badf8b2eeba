package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"frontier.rpg/internal/sim/account"
)

// SQLiteIndex is a secondary read model over the account files: one row per
// participant, refreshed on every flush. The zstd files remain the source of
// truth; a dropped row costs nothing but query freshness.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan accountRow
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type accountRow struct {
	ParticipantID string
	Name          string
	Money         int64
	Level         int
	Xp            int
	SkillPoints   int
	Skills        string // JSON array, wire order
	DailyEarnings int64
	LastLogin     int64
}

// AccountSummary is the query-side shape.
type AccountSummary struct {
	ParticipantID string
	Name          string
	Money         int64
	Level         int
	Xp            int
	SkillPoints   int
	DailyEarnings int64
	LastLogin     int64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// Sized for a flush burst on shutdown without stalling the loop.
		ch: make(chan accountRow, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the upsert-heavy workload; NORMAL is enough durability for a
	// secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS accounts (
			participant_id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			money INTEGER NOT NULL,
			level INTEGER NOT NULL,
			xp INTEGER NOT NULL,
			skill_points INTEGER NOT NULL,
			skills TEXT NOT NULL,
			daily_earnings INTEGER NOT NULL,
			last_login INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_daily ON accounts(daily_earnings DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_level ON accounts(level DESC, xp DESC);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// UpsertAccount enqueues a row refresh. Non-blocking; when the indexer falls
// behind the row is dropped and the next flush refreshes it.
func (s *SQLiteIndex) UpsertAccount(participantID string, a *account.Account) {
	if s == nil || s.closed.Load() {
		return
	}
	skills, _ := json.Marshal(a.Skills)
	row := accountRow{
		ParticipantID: participantID,
		Name:          a.Name,
		Money:         a.Money,
		Level:         a.Level,
		Xp:            a.Xp,
		SkillPoints:   a.SkillPoints,
		Skills:        string(skills),
		DailyEarnings: a.DailyEarnings,
		LastLogin:     a.LastLogin,
	}
	select {
	case s.ch <- row:
	default:
	}
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	upsert, err := s.db.Prepare(`INSERT OR REPLACE INTO accounts
		(participant_id,name,money,level,xp,skill_points,skills,daily_earnings,last_login,updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return
	}
	defer upsert.Close()

	var (
		tx          *sql.Tx
		opCount     int
		lastCommit  = time.Now()
		commitEvery = 256
		commitWait  = time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	defer commit()

	timer := time.NewTicker(commitWait)
	defer timer.Stop()

	for {
		select {
		case row, ok := <-s.ch:
			if !ok {
				return
			}
			begin()
			if tx == nil {
				continue
			}
			now := time.Now().UTC().Format(time.RFC3339Nano)
			_, _ = tx.Stmt(upsert).Exec(row.ParticipantID, row.Name, row.Money, row.Level, row.Xp,
				row.SkillPoints, row.Skills, row.DailyEarnings, row.LastLogin, now)
			opCount++
			if opCount >= commitEvery || len(s.ch) == 0 {
				commit()
			}
		case <-timer.C:
			if tx != nil && time.Since(lastCommit) >= commitWait {
				commit()
			}
		}
	}
}

// ListAccounts returns all indexed accounts ordered by level then xp.
func (s *SQLiteIndex) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	return s.query(ctx, `SELECT participant_id,name,money,level,xp,skill_points,daily_earnings,last_login
		FROM accounts ORDER BY level DESC, xp DESC, participant_id`)
}

// TopDailyEarners returns the n accounts with the highest daily earnings.
func (s *SQLiteIndex) TopDailyEarners(ctx context.Context, n int) ([]AccountSummary, error) {
	if n <= 0 {
		n = 10
	}
	return s.query(ctx, `SELECT participant_id,name,money,level,xp,skill_points,daily_earnings,last_login
		FROM accounts ORDER BY daily_earnings DESC, participant_id LIMIT `+fmt.Sprint(n))
}

func (s *SQLiteIndex) query(ctx context.Context, q string) ([]AccountSummary, error) {
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccountSummary
	for rows.Next() {
		var a AccountSummary
		if err := rows.Scan(&a.ParticipantID, &a.Name, &a.Money, &a.Level, &a.Xp,
			&a.SkillPoints, &a.DailyEarnings, &a.LastLogin); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Flush waits for the queue to drain. The writer commits whenever the queue
// empties, so after Flush returns reads observe all prior upserts.
func (s *SQLiteIndex) Flush() {
	deadline := time.Now().Add(5 * time.Second)
	for len(s.ch) > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
}
