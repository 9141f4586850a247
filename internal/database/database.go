package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"smshub/internal/migrations"
	"smshub/internal/models"
	"smshub/internal/security"

	"github.com/mattn/go-sqlite3"
)

// createdAtLayout is fixed-width so created_at values sort lexicographically,
// matching the contract on client-supplied ts values.
const createdAtLayout = "2006-01-02T15:04:05.000000Z07:00"

type Database struct {
	db *sql.DB
}

func New(dbPath string) (*Database, error) {
	if err := security.ValidateDatabasePath(dbPath); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	// _busy_timeout keeps concurrent writers queued instead of failing
	// immediately with SQLITE_BUSY.
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(migrations.InitialSchema()); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// Ping reports whether the database is reachable. Used by the readiness
// endpoint.
func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// InsertMessage persists msg idempotently. A uniqueness violation on
// message_id resolves to InsertDuplicate and leaves the existing row,
// including its original created_at, untouched. The race between concurrent
// inserts of the same message_id is settled by the primary-key constraint,
// never by a prior read.
func (d *Database) InsertMessage(ctx context.Context, msg *models.Message) (models.InsertOutcome, error) {
	createdAt := utcNow()

	query := `
		INSERT INTO messages (message_id, from_msisdn, to_msisdn, ts, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := d.db.ExecContext(ctx, query,
		msg.MessageID,
		msg.FromMSISDN,
		msg.ToMSISDN,
		msg.Timestamp,
		msg.Text,
		createdAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return models.InsertDuplicate, nil
		}
		return "", fmt.Errorf("failed to insert message: %w", err)
	}

	msg.CreatedAt = createdAt
	return models.InsertCreated, nil
}

// QueryMessages returns the count of rows matching the filters plus one page
// of them ordered by (ts, message_id) ascending. Count and page are read in
// a single transaction so they describe the same snapshot.
func (d *Database) QueryMessages(ctx context.Context, filter models.QueryFilter) (int64, []models.Message, error) {
	where, args := buildWhere(filter)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin query transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int64
	countQuery := "SELECT COUNT(*) FROM messages" + where
	if err := tx.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("failed to count messages: %w", err)
	}

	pageQuery := `
		SELECT message_id, from_msisdn, to_msisdn, ts, text, created_at
		FROM messages` + where + `
		ORDER BY ts ASC, message_id ASC
		LIMIT ? OFFSET ?
	`
	pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset)

	rows, err := tx.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	page := make([]models.Message, 0, filter.Limit)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.MessageID,
			&msg.FromMSISDN,
			&msg.ToMSISDN,
			&msg.Timestamp,
			&msg.Text,
			&msg.CreatedAt,
		); err != nil {
			return 0, nil, fmt.Errorf("failed to scan message: %w", err)
		}
		page = append(page, msg)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("failed to commit query transaction: %w", err)
	}

	return total, page, nil
}

// ComputeStats runs all aggregate sub-queries inside one transaction so the
// summary is internally consistent (senders_count can never exceed
// total_messages).
func (d *Database) ComputeStats(ctx context.Context) (*models.Stats, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin stats transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stats := &models.Stats{
		MessagesPerSender: make([]models.SenderCount, 0, 10),
	}

	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&stats.TotalMessages); err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	if err := tx.QueryRowContext(ctx, "SELECT COUNT(DISTINCT from_msisdn) FROM messages").Scan(&stats.SendersCount); err != nil {
		return nil, fmt.Errorf("failed to count senders: %w", err)
	}

	// Top senders by volume. Ties break on the sender string ascending so
	// the ordering is deterministic.
	perSenderQuery := `
		SELECT from_msisdn, COUNT(*) AS message_count
		FROM messages
		GROUP BY from_msisdn
		ORDER BY message_count DESC, from_msisdn ASC
		LIMIT 10
	`
	rows, err := tx.QueryContext(ctx, perSenderQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages per sender: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sc models.SenderCount
		if err := rows.Scan(&sc.FromMSISDN, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan sender count: %w", err)
		}
		stats.MessagesPerSender = append(stats.MessagesPerSender, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sender counts: %w", err)
	}

	var firstTS, lastTS sql.NullString
	if err := tx.QueryRowContext(ctx, "SELECT MIN(ts), MAX(ts) FROM messages").Scan(&firstTS, &lastTS); err != nil {
		return nil, fmt.Errorf("failed to query timestamp bounds: %w", err)
	}
	if firstTS.Valid {
		stats.FirstMessageTS = &firstTS.String
	}
	if lastTS.Valid {
		stats.LastMessageTS = &lastTS.String
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stats transaction: %w", err)
	}

	return stats, nil
}

func buildWhere(filter models.QueryFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.FromMSISDN != "" {
		conditions = append(conditions, "from_msisdn = ?")
		args = append(args, filter.FromMSISDN)
	}
	if filter.Since != "" {
		conditions = append(conditions, "ts >= ?")
		args = append(args, filter.Since)
	}
	if filter.Contains != "" {
		conditions = append(conditions, "LOWER(text) LIKE '%' || LOWER(?) || '%'")
		args = append(args, filter.Contains)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func utcNow() string {
	return time.Now().UTC().Format(createdAtLayout)
}
