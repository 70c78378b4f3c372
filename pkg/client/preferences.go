package client

import "context"

// GetPreferences fetches the caller's preferences record.
func (c *Client) GetPreferences(ctx context.Context) (Preferences, error) {
	var p Preferences
	err := c.do(ctx, "GET", "/users/me/preferences", nil, &p)
	return p, err
}

// SavePreferences writes the appearance fields and returns the replacing
// record.
func (c *Client) SavePreferences(ctx context.Context, req PreferencesUpdate) (Preferences, error) {
	var p Preferences
	err := c.do(ctx, "PUT", "/users/me/preferences", req, &p)
	return p, err
}

// GetNotificationPrefs fetches the caller's channel toggles.
func (c *Client) GetNotificationPrefs(ctx context.Context) (NotificationPrefs, error) {
	var p NotificationPrefs
	err := c.do(ctx, "GET", "/users/me/notification-prefs", nil, &p)
	return p, err
}

// SaveNotificationPrefs writes the channel toggles. When the save fails it
// refetches the authoritative record and returns it alongside the save
// error, so callers flipping toggles optimistically can resync their state.
func (c *Client) SaveNotificationPrefs(ctx context.Context, req NotificationPrefsUpdate) (NotificationPrefs, error) {
	var p NotificationPrefs
	err := c.do(ctx, "PUT", "/users/me/notification-prefs", req, &p)
	if err == nil {
		return p, nil
	}

	current, refetchErr := c.GetNotificationPrefs(ctx)
	if refetchErr != nil {
		// Nothing authoritative to offer; the save error stands.
		return NotificationPrefs{}, err
	}
	return current, err
}
