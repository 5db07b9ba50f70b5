package cli

import (
	"context"
	"errors"
	"fmt"

	"habitd/internal/scheduler"
	"habitd/internal/storage"
)

var knownPrefKeys = []string{
	storage.PrefDarkMode,
	storage.PrefNotificationsEnabled,
	storage.PrefLastQuoteID,
	storage.PrefNotificationSound,
}

type PrefsGetCmd struct {
	Key string `arg:"" help:"Preference key."`
}

func (c *PrefsGetCmd) Run(appCtx *Context) error {
	if err := validatePrefKey(c.Key); err != nil {
		return err
	}
	value, err := appCtx.Repo.GetPreference(context.Background(), c.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println("(unset)")
			return nil
		}
		return fmt.Errorf("get preference: %w", err)
	}
	fmt.Println(value)
	return nil
}

type PrefsSetCmd struct {
	Key   string `arg:"" help:"Preference key."`
	Value string `arg:"" help:"New value."`
}

func (c *PrefsSetCmd) Run(appCtx *Context) error {
	if err := validatePrefKey(c.Key); err != nil {
		return err
	}
	if err := appCtx.Repo.SetPreference(context.Background(), c.Key, c.Value); err != nil {
		return fmt.Errorf("set preference: %w", err)
	}
	fmt.Printf("%s = %s\n", c.Key, c.Value)
	return nil
}

func validatePrefKey(key string) error {
	for _, known := range knownPrefKeys {
		if key == known {
			return nil
		}
	}
	return fmt.Errorf("unknown preference key %q (known: %v)", key, knownPrefKeys)
}

// buildNotifier resolves the effective notification sink. The stored
// preference overrides the environment toggle; the stored sound is pushed
// into the shared channel before any notification shows.
func buildNotifier(ctx context.Context, appCtx *Context) scheduler.NotificationSink {
	enabled := appCtx.Config.DesktopNotifications
	if v, err := appCtx.Repo.GetPreference(ctx, storage.PrefNotificationsEnabled); err == nil {
		enabled = v == "true" || v == "1"
	}
	if !enabled {
		return scheduler.NoopNotifier{}
	}
	notifier := scheduler.NewDesktopNotifier()
	if sound, err := appCtx.Repo.GetPreference(ctx, storage.PrefNotificationSound); err == nil && sound != "" {
		if err := notifier.EnsureChannel(sound); err != nil {
			appCtx.Logger.Warn("apply notification sound", "err", err)
		}
	}
	return notifier
}
