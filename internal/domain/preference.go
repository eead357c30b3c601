package domain

import "time"

// ChannelPreference is a per-type override of the default channel precedence.
type ChannelPreference struct {
	EnabledChannels []Channel `json:"enabledChannels"`
	PrimaryChannel  Channel   `json:"primaryChannel"`
}

// NotificationPreference holds one user's contact details and channel opt-ins.
// A channel is usable only when its enable flag is set and the matching
// contact field is populated; IN_APP needs no contact field.
type NotificationPreference struct {
	ID     string
	UserID string

	// Per-type overrides
	Preferences map[NotificationType]ChannelPreference

	// Contacts
	PhoneNumber    string
	WhatsappNumber string // may differ from the main phone number
	Email          string

	// Channel opt-ins
	EnableSMS      bool
	EnableWhatsapp bool
	EnableEmail    bool
	EnableInApp    bool

	// Quiet hours, advisory only ("22:00" .. "07:00")
	QuietHoursStart string
	QuietHoursEnd   string

	UpdatedAt time.Time
}

// PreferredChannels resolves the ordered list of deliverable channels for a
// notification type. A per-type override wins verbatim; otherwise the fixed
// precedence SMS > WhatsApp > Email > In-App applies. The result is never
// empty: with nothing enabled it falls back to [IN_APP] so every notification
// has at least one channel satisfied by persistence alone.
func (p *NotificationPreference) PreferredChannels(t NotificationType) []Channel {
	if pref, ok := p.Preferences[t]; ok && len(pref.EnabledChannels) > 0 {
		return pref.EnabledChannels
	}

	var channels []Channel
	if p.EnableSMS && p.PhoneNumber != "" {
		channels = append(channels, ChannelSMS)
	}
	if p.EnableWhatsapp && p.WhatsappNumber != "" {
		channels = append(channels, ChannelWhatsApp)
	}
	if p.EnableEmail && p.Email != "" {
		channels = append(channels, ChannelEmail)
	}
	if p.EnableInApp {
		channels = append(channels, ChannelInApp)
	}

	if len(channels) == 0 {
		return []Channel{ChannelInApp}
	}
	return channels
}

// PrimaryChannel resolves the single channel to prefer for a type, following
// the same precedence and fallback as PreferredChannels.
func (p *NotificationPreference) PrimaryChannel(t NotificationType) Channel {
	if pref, ok := p.Preferences[t]; ok && pref.PrimaryChannel != "" {
		return pref.PrimaryChannel
	}

	if p.EnableSMS && p.PhoneNumber != "" {
		return ChannelSMS
	}
	if p.EnableWhatsapp && p.WhatsappNumber != "" {
		return ChannelWhatsApp
	}
	if p.EnableEmail && p.Email != "" {
		return ChannelEmail
	}
	return ChannelInApp
}

// IsChannelEnabled reports whether a single channel is usable for this user.
func (p *NotificationPreference) IsChannelEnabled(c Channel) bool {
	switch c {
	case ChannelSMS:
		return p.EnableSMS && p.PhoneNumber != ""
	case ChannelWhatsApp:
		return p.EnableWhatsapp && p.WhatsappNumber != ""
	case ChannelEmail:
		return p.EnableEmail && p.Email != ""
	case ChannelInApp:
		return p.EnableInApp
	}
	return false
}

// ContactFor returns the contact field backing a channel; for IN_APP it is the
// user id itself.
func (p *NotificationPreference) ContactFor(c Channel) string {
	switch c {
	case ChannelSMS:
		return p.PhoneNumber
	case ChannelWhatsApp:
		return p.WhatsappNumber
	case ChannelEmail:
		return p.Email
	case ChannelInApp:
		return p.UserID
	}
	return ""
}
