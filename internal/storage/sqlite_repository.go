package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"habitd/internal/model"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) CreateHabit(ctx context.Context, in model.Habit) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO habits (name, description, created_at, reminder_enabled, reminder_times, reminder_days, reminder_sound_uri)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Description, in.CreatedAt, boolInt(in.ReminderEnabled),
		in.ReminderTimes, in.ReminderDays, in.ReminderSoundURI,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetHabit(ctx context.Context, id int64) (model.Habit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, reminder_enabled, reminder_times, reminder_days, reminder_sound_uri
		FROM habits WHERE id = ?`, id)
	habit, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Habit{}, ErrNotFound
		}
		return model.Habit{}, err
	}
	return habit, nil
}

func (r *SQLiteRepository) UpdateHabit(ctx context.Context, in model.Habit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE habits
		SET name = ?, description = ?, reminder_enabled = ?, reminder_times = ?, reminder_days = ?, reminder_sound_uri = ?
		WHERE id = ?`,
		in.Name, in.Description, boolInt(in.ReminderEnabled),
		in.ReminderTimes, in.ReminderDays, in.ReminderSoundURI, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteHabit(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListHabits(ctx context.Context) ([]model.Habit, error) {
	return r.listHabits(ctx, `
		SELECT id, name, description, created_at, reminder_enabled, reminder_times, reminder_days, reminder_sound_uri
		FROM habits ORDER BY name ASC`)
}

func (r *SQLiteRepository) ListHabitsWithReminders(ctx context.Context) ([]model.Habit, error) {
	return r.listHabits(ctx, `
		SELECT id, name, description, created_at, reminder_enabled, reminder_times, reminder_days, reminder_sound_uri
		FROM habits WHERE reminder_enabled = 1 ORDER BY name ASC`)
}

func (r *SQLiteRepository) listHabits(ctx context.Context, query string) ([]model.Habit, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Habit, 0)
	for rows.Next() {
		habit, scanErr := scanHabit(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, habit)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) InsertLog(ctx context.Context, in model.HabitLog) error {
	if err := in.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO habit_logs (habit_id, date, completed, reminder_time)
		VALUES (?, ?, ?, ?)`,
		in.HabitID, in.Date, boolInt(in.Completed), reminderTimeColumn(in.ReminderTime),
	)
	return err
}

func (r *SQLiteRepository) UpdateLog(ctx context.Context, in model.HabitLog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE habit_logs SET completed = ? WHERE id = ?`,
		boolInt(in.Completed), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteLog(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habit_logs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListLogsForHabit(ctx context.Context, habitID int64) ([]model.HabitLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, habit_id, date, completed, reminder_time
		FROM habit_logs WHERE habit_id = ? ORDER BY date DESC`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.HabitLog, 0)
	for rows.Next() {
		log, scanErr := scanLog(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetLogByDate(ctx context.Context, habitID int64, date string) (model.HabitLog, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, habit_id, date, completed, reminder_time
		FROM habit_logs WHERE habit_id = ? AND date = ? LIMIT 1`, habitID, date)
	return scanLogRow(row)
}

func (r *SQLiteRepository) GetLogByDateAndTime(ctx context.Context, habitID int64, date, reminderTime string) (model.HabitLog, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, habit_id, date, completed, reminder_time
		FROM habit_logs WHERE habit_id = ? AND date = ? AND reminder_time = ? LIMIT 1`,
		habitID, date, reminderTime)
	return scanLogRow(row)
}

func (r *SQLiteRepository) InsertQuotes(ctx context.Context, quotes []model.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range quotes {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO quotes (id, text, author, category)
			VALUES (?, ?, ?, ?)`,
			q.ID, q.Text, q.Author, q.Category,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) RandomQuote(ctx context.Context) (model.Quote, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, text, author, category FROM quotes ORDER BY RANDOM() LIMIT 1`)
	return scanQuoteRow(row)
}

func (r *SQLiteRepository) RandomQuoteByCategory(ctx context.Context, category string) (model.Quote, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, text, author, category FROM quotes WHERE category = ? ORDER BY RANDOM() LIMIT 1`, category)
	return scanQuoteRow(row)
}

func (r *SQLiteRepository) ClearQuotes(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM quotes`)
	return err
}

func (r *SQLiteRepository) GetPreference(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (r *SQLiteRepository) SetPreference(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// reminderTimeColumn maps the nil reminder time ("completed outside any
// scheduled slot") to the empty string, so the uniqueness index treats all
// outside-schedule completions for a date as one tuple. SQLite would treat
// NULLs as distinct.
func reminderTimeColumn(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(s scanner) (model.Habit, error) {
	var out model.Habit
	var enabled int
	if err := s.Scan(&out.ID, &out.Name, &out.Description, &out.CreatedAt,
		&enabled, &out.ReminderTimes, &out.ReminderDays, &out.ReminderSoundURI); err != nil {
		return model.Habit{}, err
	}
	out.ReminderEnabled = enabled == 1
	return out, nil
}

func scanLog(s scanner) (model.HabitLog, error) {
	var out model.HabitLog
	var completed int
	var reminderTime string
	if err := s.Scan(&out.ID, &out.HabitID, &out.Date, &completed, &reminderTime); err != nil {
		return model.HabitLog{}, err
	}
	out.Completed = completed == 1
	if reminderTime != "" {
		out.ReminderTime = &reminderTime
	}
	return out, nil
}

func scanLogRow(row *sql.Row) (model.HabitLog, error) {
	log, err := scanLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.HabitLog{}, ErrNotFound
		}
		return model.HabitLog{}, err
	}
	return log, nil
}

func scanQuoteRow(row *sql.Row) (model.Quote, error) {
	var out model.Quote
	err := row.Scan(&out.ID, &out.Text, &out.Author, &out.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quote{}, ErrNotFound
	}
	return out, err
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
