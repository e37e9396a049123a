package database

import "time"

// User is a bot user keyed by their Telegram user ID. The daily quota
// counter lives on the row together with the calendar date it applies
// to; the counter resets implicitly when the stored date falls behind.
type User struct {
	ID        int64  `db:"id"`
	Username  string `db:"username"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`

	DailyRequests int    `db:"daily_requests"`
	QuotaDate     string `db:"quota_date"`

	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastActiveAt time.Time `db:"last_active_at"`
}

// Request is one append-only log row per generation request.
type Request struct {
	ID         uint      `db:"id"`
	UserID     int64     `db:"user_id"`
	Topic      string    `db:"topic"`
	Status     string    `db:"status"`
	PostCount  int       `db:"post_count"`
	DurationMS int64     `db:"duration_ms"`
	CreatedAt  time.Time `db:"created_at"`
}

// Request status values.
const (
	RequestStatusSuccess  = "success"
	RequestStatusFallback = "fallback"
	RequestStatusFailed   = "failed"
)

// SavedContent is a generated post set a user chose to keep.
type SavedContent struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	Topic     string    `db:"topic"`
	Content   string    `db:"content"`
	Favorite  bool      `db:"favorite"`
	CreatedAt time.Time `db:"created_at"`
}

// Setting is one key-value preference row for a user.
type Setting struct {
	UserID    int64     `db:"user_id"`
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Well-known setting keys.
const (
	SettingAutoSave = "auto_save"
)

// Reminder is a message scheduled for delivery at a point in time.
type Reminder struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	Message   string    `db:"message"`
	RemindAt  time.Time `db:"remind_at"`
	Sent      bool      `db:"sent"`
	CreatedAt time.Time `db:"created_at"`
}

// Feedback is one user rating with an optional comment.
type Feedback struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

// SearchQuery is one append-only search history row.
type SearchQuery struct {
	ID          uint      `db:"id"`
	UserID      int64     `db:"user_id"`
	Query       string    `db:"query"`
	Engine      string    `db:"engine"`
	ResultCount int       `db:"result_count"`
	CreatedAt   time.Time `db:"created_at"`
}

// SystemNotification is one broadcast message queued for a user.
type SystemNotification struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	Message   string    `db:"message"`
	Sent      bool      `db:"sent"`
	CreatedAt time.Time `db:"created_at"`
}

// UserStats aggregates a user's request history for /analytics.
type UserStats struct {
	TotalRequests    int    `db:"total_requests"`
	SuccessRequests  int    `db:"success_requests"`
	FallbackRequests int    `db:"fallback_requests"`
	SavedCount       int    `db:"saved_count"`
	TopTopic         string `db:"top_topic"`
}
