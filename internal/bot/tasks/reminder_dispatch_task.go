package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
)

// dispatchBatchSize bounds how many rows one run delivers.
const dispatchBatchSize = 50

// newReminderDispatchTask creates the scheduled task that delivers due
// reminders and queued broadcast notifications. Delivery failures
// leave the row unsent so the next run retries it.
func newReminderDispatchTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "reminder_dispatch")

	return func(ctx context.Context) error {
		if err := dispatchReminders(ctx, deps, log); err != nil {
			return err
		}
		return dispatchNotifications(ctx, deps, log)
	}
}

func dispatchReminders(ctx context.Context, deps TaskDeps, log *slog.Logger) error {
	reminders, err := deps.Store.DueReminders(ctx, time.Now(), dispatchBatchSize)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch due reminders", "error", err)
		return fmt.Errorf("fetching due reminders: %w", err)
	}
	if len(reminders) == 0 {
		return nil
	}

	log.InfoContext(ctx, "Dispatching due reminders", "count", len(reminders))

	sent := 0
	for _, reminder := range reminders {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_, err := deps.TgBot.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID: reminder.UserID,
			Text:   "⏰ یادآوری:\n" + reminder.Message,
		})
		if err != nil {
			log.WarnContext(ctx, "Failed to deliver reminder, will retry next run",
				"reminder_id", reminder.ID, "user_id", reminder.UserID, "error", err)
			continue
		}

		if err := deps.Store.MarkReminderSent(ctx, reminder.ID); err != nil {
			log.ErrorContext(ctx, "Failed to mark reminder sent", "reminder_id", reminder.ID, "error", err)
			continue
		}
		sent++
	}

	log.InfoContext(ctx, "Reminder dispatch finished", "sent", sent, "due", len(reminders))
	return nil
}

func dispatchNotifications(ctx context.Context, deps TaskDeps, log *slog.Logger) error {
	notifications, err := deps.Store.PendingNotifications(ctx, dispatchBatchSize)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch pending notifications", "error", err)
		return fmt.Errorf("fetching pending notifications: %w", err)
	}
	if len(notifications) == 0 {
		return nil
	}

	log.InfoContext(ctx, "Dispatching broadcast notifications", "count", len(notifications))

	sent := 0
	for _, notification := range notifications {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_, err := deps.TgBot.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID: notification.UserID,
			Text:   "📣 اطلاعیه:\n" + notification.Message,
		})
		if err != nil {
			log.WarnContext(ctx, "Failed to deliver notification, will retry next run",
				"notification_id", notification.ID, "user_id", notification.UserID, "error", err)
			continue
		}

		if err := deps.Store.MarkNotificationSent(ctx, notification.ID); err != nil {
			log.ErrorContext(ctx, "Failed to mark notification sent", "notification_id", notification.ID, "error", err)
			continue
		}
		sent++
	}

	log.InfoContext(ctx, "Notification dispatch finished", "sent", sent, "pending", len(notifications))
	return nil
}
