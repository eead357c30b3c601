package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullPreference() *NotificationPreference {
	return &NotificationPreference{
		UserID:         "user-1",
		PhoneNumber:    "+51987654321",
		WhatsappNumber: "+51987654322",
		Email:          "maria@example.com",
		EnableSMS:      true,
		EnableWhatsapp: true,
		EnableEmail:    true,
		EnableInApp:    true,
	}
}

func TestPreferredChannelsPrecedence(t *testing.T) {
	p := fullPreference()

	got := p.PreferredChannels(TypeReceiptGenerated)
	assert.Equal(t, []Channel{ChannelSMS, ChannelWhatsApp, ChannelEmail, ChannelInApp}, got)
	assert.Equal(t, ChannelSMS, p.PrimaryChannel(TypeReceiptGenerated))
}

func TestPreferredChannelsSkipsMissingContact(t *testing.T) {
	p := fullPreference()
	p.PhoneNumber = "" // enabled but no number on file

	got := p.PreferredChannels(TypeReceiptGenerated)
	assert.Equal(t, []Channel{ChannelWhatsApp, ChannelEmail, ChannelInApp}, got)
	assert.Equal(t, ChannelWhatsApp, p.PrimaryChannel(TypeReceiptGenerated))
}

func TestPreferredChannelsDisabledFlags(t *testing.T) {
	p := fullPreference()
	p.EnableSMS = false
	p.EnableWhatsapp = false

	got := p.PreferredChannels(TypePaymentOverdue)
	assert.Equal(t, []Channel{ChannelEmail, ChannelInApp}, got)
}

func TestPreferredChannelsFallbackNeverEmpty(t *testing.T) {
	// everything opted out: the user must still be reachable in-app
	p := &NotificationPreference{UserID: "user-1"}

	assert.Equal(t, []Channel{ChannelInApp}, p.PreferredChannels(TypeSystemAnnouncement))
	assert.Equal(t, ChannelInApp, p.PrimaryChannel(TypeSystemAnnouncement))
}

func TestPerTypeOverrideWinsVerbatim(t *testing.T) {
	p := fullPreference()
	p.Preferences = map[NotificationType]ChannelPreference{
		TypeWaterQualityAlert: {
			EnabledChannels: []Channel{ChannelWhatsApp, ChannelSMS},
			PrimaryChannel:  ChannelWhatsApp,
		},
	}

	assert.Equal(t, []Channel{ChannelWhatsApp, ChannelSMS}, p.PreferredChannels(TypeWaterQualityAlert))
	assert.Equal(t, ChannelWhatsApp, p.PrimaryChannel(TypeWaterQualityAlert))

	// other types are untouched by the override
	assert.Equal(t, ChannelSMS, p.PrimaryChannel(TypeReceiptGenerated))
}

func TestIsChannelEnabled(t *testing.T) {
	p := fullPreference()
	p.Email = ""

	assert.True(t, p.IsChannelEnabled(ChannelSMS))
	assert.True(t, p.IsChannelEnabled(ChannelWhatsApp))
	assert.False(t, p.IsChannelEnabled(ChannelEmail), "enabled flag without a contact is not usable")
	assert.True(t, p.IsChannelEnabled(ChannelInApp))
	assert.False(t, p.IsChannelEnabled(Channel("PIGEON")))
}

func TestContactFor(t *testing.T) {
	p := fullPreference()

	assert.Equal(t, "+51987654321", p.ContactFor(ChannelSMS))
	assert.Equal(t, "+51987654322", p.ContactFor(ChannelWhatsApp))
	assert.Equal(t, "maria@example.com", p.ContactFor(ChannelEmail))
	assert.Equal(t, "user-1", p.ContactFor(ChannelInApp))
}
