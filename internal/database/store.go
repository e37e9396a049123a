package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrQuotaExceeded is returned by CheckAndIncrementQuota when the user
// has already spent their daily allowance.
var ErrQuotaExceeded = errors.New("daily request quota exceeded")

// ErrUnknownUser is returned when an operation references a user that
// was never registered via UpsertUser.
var ErrUnknownUser = errors.New("unknown user")

// QuotaDate formats a time as the calendar-day key used for quota
// bookkeeping. The counter resets when the stored key falls behind.
func QuotaDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUser creates the user on first contact and refreshes the
	// profile fields and last-active timestamp on every later call.
	UpsertUser(ctx context.Context, user *User) error

	// GetUser retrieves a user by ID. Returns nil, nil if not found.
	GetUser(ctx context.Context, userID int64) (*User, error)

	// CheckAndIncrementQuota consumes one unit of the user's daily
	// allowance inside a single transaction. The counter resets when
	// the stored date differs from today. Returns the remaining
	// allowance, or ErrQuotaExceeded without consuming anything.
	CheckAndIncrementQuota(ctx context.Context, userID int64, max int, today string) (int, error)

	// LogRequest appends one generation request record.
	LogRequest(ctx context.Context, request *Request) error

	// LogSearch appends one search history record.
	LogSearch(ctx context.Context, query *SearchQuery) error

	// SaveFeedback appends one feedback record.
	SaveFeedback(ctx context.Context, feedback *Feedback) error

	// SaveContent stores a generated post set for later retrieval.
	SaveContent(ctx context.Context, content *SavedContent) error

	// ListSavedContent retrieves the user's saved content, newest first.
	ListSavedContent(ctx context.Context, userID int64, limit int) ([]SavedContent, error)

	// ToggleFavorite flips the favorite flag on a saved item owned by
	// the user and returns the new state. Toggling twice restores the
	// original state.
	ToggleFavorite(ctx context.Context, userID int64, contentID uint) (bool, error)

	// GetSettings retrieves all of a user's preference key-value pairs.
	GetSettings(ctx context.Context, userID int64) (map[string]string, error)

	// UpsertSetting stores one preference key-value pair.
	UpsertSetting(ctx context.Context, userID int64, key, value string) error

	// CreateReminder schedules a message for future delivery.
	CreateReminder(ctx context.Context, reminder *Reminder) error

	// DueReminders retrieves unsent reminders due at or before now.
	DueReminders(ctx context.Context, now time.Time, limit int) ([]Reminder, error)

	// MarkReminderSent marks a reminder as delivered.
	MarkReminderSent(ctx context.Context, reminderID uint) error

	// CreateBroadcast queues one system notification per registered
	// user and returns how many were queued.
	CreateBroadcast(ctx context.Context, message string) (int, error)

	// PendingNotifications retrieves queued, undelivered notifications.
	PendingNotifications(ctx context.Context, limit int) ([]SystemNotification, error)

	// MarkNotificationSent marks a system notification as delivered.
	MarkNotificationSent(ctx context.Context, notificationID uint) error

	// GetUserStats aggregates the user's request history.
	GetUserStats(ctx context.Context, userID int64) (*UserStats, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withTx runs fn inside a transaction with the deferred-rollback
// pattern: the rollback is a no-op once the commit succeeds.
func (s *sqlxStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil
	return nil
}

func (s *sqlxStore) UpsertUser(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("cannot save nil user")
	}
	if user.ID == 0 {
		return fmt.Errorf("user must have a non-zero id")
	}

	now := time.Now().UTC()
	user.UpdatedAt = now
	user.LastActiveAt = now
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}

	query := `
        INSERT INTO users (id, username, first_name, last_name, daily_requests, quota_date, created_at, updated_at, last_active_at)
        VALUES (:id, :username, :first_name, :last_name, 0, '', :created_at, :updated_at, :last_active_at)
        ON CONFLICT (id) DO UPDATE SET
            username = excluded.username,
            first_name = excluded.first_name,
            last_name = excluded.last_name,
            updated_at = excluded.updated_at,
            last_active_at = excluded.last_active_at;
    `

	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user", "user_id", user.ID, "error", err)
		return fmt.Errorf("failed to upsert user %d: %w", user.ID, err)
	}

	s.logger.DebugContext(ctx, "User upserted", "user_id", user.ID)
	return nil
}

func (s *sqlxStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}

	var user User
	query := `SELECT id, username, first_name, last_name, daily_requests, quota_date, created_at, updated_at, last_active_at
	          FROM users WHERE id = ?`

	err := s.db.GetContext(ctx, &user, query, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return &user, nil
}

// CheckAndIncrementQuota reads and increments the daily counter in one
// transaction so two concurrent requests can never exceed the maximum.
func (s *sqlxStore) CheckAndIncrementQuota(ctx context.Context, userID int64, max int, today string) (int, error) {
	if userID == 0 {
		return 0, fmt.Errorf("user_id cannot be zero")
	}
	if max <= 0 {
		return 0, fmt.Errorf("quota maximum must be positive")
	}

	remaining := 0
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var row struct {
			DailyRequests int    `db:"daily_requests"`
			QuotaDate     string `db:"quota_date"`
		}
		err := tx.GetContext(ctx, &row,
			`SELECT daily_requests, quota_date FROM users WHERE id = ?`, userID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("%w: %d", ErrUnknownUser, userID)
		case err != nil:
			return fmt.Errorf("failed to read quota for user %d: %w", userID, err)
		}

		count := row.DailyRequests
		if row.QuotaDate != today {
			count = 0
		}
		if count >= max {
			return ErrQuotaExceeded
		}
		count++

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET daily_requests = ?, quota_date = ?, last_active_at = ? WHERE id = ?`,
			count, today, time.Now().UTC(), userID); err != nil {
			return fmt.Errorf("failed to update quota for user %d: %w", userID, err)
		}

		remaining = max - count
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrQuotaExceeded) {
			s.logger.ErrorContext(ctx, "Quota check failed", "user_id", userID, "error", err)
		}
		return 0, err
	}

	s.logger.DebugContext(ctx, "Quota consumed", "user_id", userID, "remaining", remaining)
	return remaining, nil
}

func (s *sqlxStore) LogRequest(ctx context.Context, request *Request) error {
	if request == nil {
		return fmt.Errorf("cannot save nil request")
	}
	if request.UserID == 0 {
		return fmt.Errorf("request must have a non-zero user_id")
	}
	request.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO requests (user_id, topic, status, post_count, duration_ms, created_at)
        VALUES (:user_id, :topic, :status, :post_count, :duration_ms, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, request)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error logging request", "user_id", request.UserID, "error", err)
		return fmt.Errorf("failed to log request for user %d: %w", request.UserID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		request.ID = uint(id)
	}
	return nil
}

func (s *sqlxStore) LogSearch(ctx context.Context, query *SearchQuery) error {
	if query == nil {
		return fmt.Errorf("cannot save nil search query")
	}
	query.CreatedAt = time.Now().UTC()

	stmt := `
        INSERT INTO search_history (user_id, query, engine, result_count, created_at)
        VALUES (:user_id, :query, :engine, :result_count, :created_at);
    `
	if _, err := s.db.NamedExecContext(ctx, stmt, query); err != nil {
		s.logger.ErrorContext(ctx, "Error logging search", "user_id", query.UserID, "error", err)
		return fmt.Errorf("failed to log search for user %d: %w", query.UserID, err)
	}
	return nil
}

func (s *sqlxStore) SaveFeedback(ctx context.Context, feedback *Feedback) error {
	if feedback == nil {
		return fmt.Errorf("cannot save nil feedback")
	}
	if feedback.UserID == 0 {
		return fmt.Errorf("feedback must have a non-zero user_id")
	}
	feedback.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO feedback (user_id, rating, comment, created_at)
        VALUES (:user_id, :rating, :comment, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, feedback)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving feedback", "user_id", feedback.UserID, "error", err)
		return fmt.Errorf("failed to save feedback for user %d: %w", feedback.UserID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		feedback.ID = uint(id)
	}
	return nil
}

func (s *sqlxStore) SaveContent(ctx context.Context, content *SavedContent) error {
	if content == nil {
		return fmt.Errorf("cannot save nil content")
	}
	if content.UserID == 0 {
		return fmt.Errorf("content must have a non-zero user_id")
	}
	if content.Content == "" {
		return fmt.Errorf("content must be non-empty")
	}
	content.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO saved_content (user_id, topic, content, favorite, created_at)
        VALUES (:user_id, :topic, :content, :favorite, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, content)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving content", "user_id", content.UserID, "error", err)
		return fmt.Errorf("failed to save content for user %d: %w", content.UserID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		content.ID = uint(id)
	}

	s.logger.DebugContext(ctx, "Content saved", "user_id", content.UserID, "content_id", content.ID)
	return nil
}

func (s *sqlxStore) ListSavedContent(ctx context.Context, userID int64, limit int) ([]SavedContent, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if limit <= 0 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}

	var items []SavedContent
	query := `SELECT id, user_id, topic, content, favorite, created_at
	          FROM saved_content
	          WHERE user_id = ?
	          ORDER BY created_at DESC, id DESC
	          LIMIT ?`

	if err := s.db.SelectContext(ctx, &items, query, userID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error listing saved content", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list saved content for user %d: %w", userID, err)
	}

	return items, nil
}

func (s *sqlxStore) ToggleFavorite(ctx context.Context, userID int64, contentID uint) (bool, error) {
	if userID == 0 || contentID == 0 {
		return false, fmt.Errorf("user_id and content_id must be non-zero")
	}

	newState := false
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var favorite bool
		err := tx.GetContext(ctx, &favorite,
			`SELECT favorite FROM saved_content WHERE id = ? AND user_id = ?`, contentID, userID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("saved content %d not found for user %d", contentID, userID)
		case err != nil:
			return fmt.Errorf("failed to read favorite flag: %w", err)
		}

		newState = !favorite
		if _, err := tx.ExecContext(ctx,
			`UPDATE saved_content SET favorite = ? WHERE id = ? AND user_id = ?`,
			newState, contentID, userID); err != nil {
			return fmt.Errorf("failed to update favorite flag: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error toggling favorite", "user_id", userID, "content_id", contentID, "error", err)
		return false, err
	}

	return newState, nil
}

func (s *sqlxStore) GetSettings(ctx context.Context, userID int64) (map[string]string, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}

	var rows []Setting
	query := `SELECT user_id, key, value, updated_at FROM user_settings WHERE user_id = ?`
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting settings", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get settings for user %d: %w", userID, err)
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}
	return settings, nil
}

func (s *sqlxStore) UpsertSetting(ctx context.Context, userID int64, key, value string) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}
	if key == "" {
		return fmt.Errorf("setting key cannot be empty")
	}

	query := `
        INSERT INTO user_settings (user_id, key, value, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (user_id, key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.ExecContext(ctx, query, userID, key, value, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting setting", "user_id", userID, "key", key, "error", err)
		return fmt.Errorf("failed to upsert setting %q for user %d: %w", key, userID, err)
	}

	return nil
}

func (s *sqlxStore) CreateReminder(ctx context.Context, reminder *Reminder) error {
	if reminder == nil {
		return fmt.Errorf("cannot save nil reminder")
	}
	if reminder.UserID == 0 {
		return fmt.Errorf("reminder must have a non-zero user_id")
	}
	if reminder.RemindAt.IsZero() {
		return fmt.Errorf("reminder must have a non-zero remind_at")
	}
	reminder.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO reminders (user_id, message, remind_at, sent, created_at)
        VALUES (:user_id, :message, :remind_at, :sent, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, reminder)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating reminder", "user_id", reminder.UserID, "error", err)
		return fmt.Errorf("failed to create reminder for user %d: %w", reminder.UserID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		reminder.ID = uint(id)
	}

	return nil
}

func (s *sqlxStore) DueReminders(ctx context.Context, now time.Time, limit int) ([]Reminder, error) {
	if limit <= 0 {
		limit = 50
	}

	var reminders []Reminder
	query := `SELECT id, user_id, message, remind_at, sent, created_at
	          FROM reminders
	          WHERE sent = 0 AND remind_at <= ?
	          ORDER BY remind_at ASC
	          LIMIT ?`

	if err := s.db.SelectContext(ctx, &reminders, query, now.UTC(), limit); err != nil {
		s.logger.ErrorContext(ctx, "Error fetching due reminders", "error", err)
		return nil, fmt.Errorf("failed to fetch due reminders: %w", err)
	}

	return reminders, nil
}

func (s *sqlxStore) MarkReminderSent(ctx context.Context, reminderID uint) error {
	if reminderID == 0 {
		return fmt.Errorf("reminder_id cannot be zero")
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET sent = 1 WHERE id = ?`, reminderID); err != nil {
		s.logger.ErrorContext(ctx, "Error marking reminder sent", "reminder_id", reminderID, "error", err)
		return fmt.Errorf("failed to mark reminder %d sent: %w", reminderID, err)
	}

	return nil
}

func (s *sqlxStore) CreateBroadcast(ctx context.Context, message string) (int, error) {
	if message == "" {
		return 0, fmt.Errorf("broadcast message cannot be empty")
	}

	result, err := s.db.ExecContext(ctx, `
        INSERT INTO system_notifications (user_id, message, sent, created_at)
        SELECT id, ?, 0, ? FROM users`, message, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating broadcast", "error", err)
		return 0, fmt.Errorf("failed to create broadcast: %w", err)
	}

	queued, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count broadcast recipients: %w", err)
	}

	s.logger.InfoContext(ctx, "Broadcast queued", "recipients", queued)
	return int(queued), nil
}

func (s *sqlxStore) PendingNotifications(ctx context.Context, limit int) ([]SystemNotification, error) {
	if limit <= 0 {
		limit = 50
	}

	var notifications []SystemNotification
	query := `SELECT id, user_id, message, sent, created_at
	          FROM system_notifications
	          WHERE sent = 0
	          ORDER BY created_at ASC, id ASC
	          LIMIT ?`

	if err := s.db.SelectContext(ctx, &notifications, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error fetching pending notifications", "error", err)
		return nil, fmt.Errorf("failed to fetch pending notifications: %w", err)
	}

	return notifications, nil
}

func (s *sqlxStore) MarkNotificationSent(ctx context.Context, notificationID uint) error {
	if notificationID == 0 {
		return fmt.Errorf("notification_id cannot be zero")
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE system_notifications SET sent = 1 WHERE id = ?`, notificationID); err != nil {
		s.logger.ErrorContext(ctx, "Error marking notification sent", "notification_id", notificationID, "error", err)
		return fmt.Errorf("failed to mark notification %d sent: %w", notificationID, err)
	}

	return nil
}

func (s *sqlxStore) GetUserStats(ctx context.Context, userID int64) (*UserStats, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}

	var stats UserStats
	query := `
        SELECT
            COUNT(*) AS total_requests,
            COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0) AS success_requests,
            COALESCE(SUM(CASE WHEN status = 'fallback' THEN 1 ELSE 0 END), 0) AS fallback_requests
        FROM requests
        WHERE user_id = ?;
    `
	if err := s.db.GetContext(ctx, &stats, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error aggregating request stats", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to aggregate stats for user %d: %w", userID, err)
	}

	if err := s.db.GetContext(ctx, &stats.SavedCount,
		`SELECT COUNT(*) FROM saved_content WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("failed to count saved content for user %d: %w", userID, err)
	}

	err := s.db.GetContext(ctx, &stats.TopTopic, `
        SELECT topic FROM requests
        WHERE user_id = ?
        GROUP BY topic
        ORDER BY COUNT(*) DESC, MAX(created_at) DESC
        LIMIT 1`, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to find top topic for user %d: %w", userID, err)
	}

	return &stats, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
// VACUUM must run outside a transaction in SQLite.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		s.logger.WarnContext(ctx, "Failed to set busy timeout", "error", err)
	}

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
