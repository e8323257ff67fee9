// Package sqlite implements the store ports on an embedded SQLite
// database, compiling the typed predicates to SQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"finflio/internal/core"
	"finflio/internal/store"
)

type Store struct {
	db *sql.DB
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.UserStore        = (*Store)(nil)
)

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const txnColumns = "id, user_id, timestamp, type, category, payment_method, description, amount, attachment, from_party, to_party"

func txnArgs(txn core.Transaction) []any {
	from, to := "", ""
	if txn.Counterparty.IsTo() {
		to = txn.Counterparty.Name()
	} else {
		from = txn.Counterparty.Name()
	}
	return []any{
		txn.ID, txn.UserID, txn.Timestamp, string(txn.Type), txn.Category,
		txn.PaymentMethod, txn.Description, txn.Amount, txn.Attachment, from, to,
	}
}

func scanTxn(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		txn      core.Transaction
		typ      string
		from, to string
	)
	err := row.Scan(&txn.ID, &txn.UserID, &txn.Timestamp, &typ, &txn.Category,
		&txn.PaymentMethod, &txn.Description, &txn.Amount, &txn.Attachment, &from, &to)
	if err != nil {
		return core.Transaction{}, err
	}
	txn.Type = core.TransactionType(typ)
	if to != "" {
		txn.Counterparty = core.To(to)
	} else {
		txn.Counterparty = core.From(from)
	}
	return txn, nil
}

func (s *Store) InsertOne(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions ("+txnColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		txnArgs(txn)...)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	slog.DebugContext(ctx, "Transaction inserted", "id", txn.ID, "user_id", txn.UserID, "type", txn.Type)
	return txn, nil
}

// InsertMany writes the batch inside one SQL transaction so the whole
// batch is acknowledged or none of it is. The returned slice carries the
// assigned ids.
func (s *Store) InsertMany(ctx context.Context, txns []core.Transaction) ([]core.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO transactions ("+txnColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	batch := make([]core.Transaction, len(txns))
	for i, txn := range txns {
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, txnArgs(txn)...); err != nil {
			return nil, fmt.Errorf("insert batch transaction: %w", err)
		}
		batch[i] = txn
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch insert: %w", err)
	}
	slog.InfoContext(ctx, "Transaction batch inserted", "count", len(batch))
	return batch, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+txnColumns+" FROM transactions WHERE id = ?", id)
	txn, err := scanTxn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("find transaction by id: %w", err)
	}
	return txn, nil
}

func (s *Store) UpdateByID(ctx context.Context, txn core.Transaction) error {
	args := txnArgs(txn)
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET user_id = ?, timestamp = ?, type = ?, category = ?,
		 payment_method = ?, description = ?, amount = ?, attachment = ?, from_party = ?, to_party = ?
		 WHERE id = ?`,
		append(args[1:], txn.ID)...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

// compilePredicate renders the predicate as a WHERE clause with args.
func compilePredicate(p store.Predicate) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 8)
	if p.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, p.UserID)
	}
	if len(p.Types) > 0 {
		clauses = append(clauses, "type IN ("+placeholders(len(p.Types))+")")
		for _, t := range p.Types {
			args = append(args, string(t))
		}
	}
	if len(p.ExcludeTypes) > 0 {
		clauses = append(clauses, "type NOT IN ("+placeholders(len(p.ExcludeTypes))+")")
		for _, t := range p.ExcludeTypes {
			args = append(args, string(t))
		}
	}
	if p.Window != nil {
		clauses = append(clauses, "timestamp BETWEEN ? AND ?")
		args = append(args, p.Window.Start, p.Window.End)
	}
	if len(clauses) == 0 {
		return "1=1", nil
	}
	return strings.Join(clauses, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (s *Store) Count(ctx context.Context, p store.Predicate) (int, error) {
	where, args := compilePredicate(p)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions WHERE "+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (s *Store) SumAmount(ctx context.Context, p store.Predicate) (float64, error) {
	where, args := compilePredicate(p)
	var sum float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE "+where, args...).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum transaction amounts: %w", err)
	}
	return sum, nil
}

func (s *Store) ListPage(ctx context.Context, p store.Predicate, order store.Sort, skip, limit int) ([]core.Transaction, error) {
	where, args := compilePredicate(p)
	dir := "ASC"
	if order == store.SortTimestampDesc {
		dir = "DESC"
	}
	args = append(args, limit, skip)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+txnColumns+" FROM transactions WHERE "+where+
			" ORDER BY timestamp "+dir+" LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		txn, err := scanTxn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func bucketFormat(b store.Bucket) string {
	if b == store.BucketMonthly {
		return "%Y-%m"
	}
	return "%Y-%m-%d"
}

// BucketedAggregate groups by the date key of each timestamp and sums
// income and expense amounts per bucket, the conditional-sum shape of the
// original aggregation pipeline.
func (s *Store) BucketedAggregate(ctx context.Context, p store.Predicate, b store.Bucket) ([]core.StatsBucket, error) {
	where, args := compilePredicate(p)
	query := `SELECT strftime('` + bucketFormat(b) + `', timestamp / 1000, 'unixepoch') AS bucket,
		COALESCE(SUM(CASE WHEN type = 'Income' THEN amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN type = 'Expense' THEN amount ELSE 0 END), 0)
		FROM transactions WHERE ` + where + `
		GROUP BY bucket ORDER BY bucket ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bucketed aggregate: %w", err)
	}
	defer rows.Close()

	var out []core.StatsBucket
	for rows.Next() {
		var bucket core.StatsBucket
		if err := rows.Scan(&bucket.Date, &bucket.TotalDailyIncome, &bucket.TotalDailyExpense); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		out = append(out, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buckets: %w", err)
	}
	return out, nil
}

func (s *Store) InsertUser(ctx context.Context, u core.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, salt) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.Email, u.Name, u.PasswordHash, u.Salt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, salt FROM users WHERE email = ?", email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Salt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}
