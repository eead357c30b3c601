package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplate(t *testing.T) {
	tmpl, event := NewTemplate(NotificationTemplate{
		Code:     "USER_CREDENTIALS_TEMPLATE",
		Name:     "Credenciales de acceso",
		Channel:  ChannelEmail,
		Template: "Usuario: {username}, Clave: {temporaryPassword}",
	})

	assert.NotEmpty(t, tmpl.ID)
	assert.Equal(t, TemplateDraft, tmpl.Status)
	assert.False(t, tmpl.IsActive())

	require.NotNil(t, event)
	assert.Equal(t, "template.created", event.EventName())
}

func TestTemplateLifecycle(t *testing.T) {
	tmpl, _ := NewTemplate(NotificationTemplate{Code: "RECEIPT_SMS", Channel: ChannelSMS})

	tmpl.Activate()
	assert.Equal(t, TemplateActive, tmpl.Status)
	assert.True(t, tmpl.IsActive())
	require.NotNil(t, tmpl.UpdatedAt)

	tmpl.Deactivate()
	assert.Equal(t, TemplateInactive, tmpl.Status)
	assert.False(t, tmpl.IsActive())
}

func TestRender(t *testing.T) {
	tmpl := &NotificationTemplate{
		Template: "Usuario: {username}, Clave: {temporaryPassword}",
	}

	got := tmpl.Render(map[string]string{
		"username":          "juan.perez",
		"temporaryPassword": "Xy7!9Q",
	})
	assert.Equal(t, "Usuario: juan.perez, Clave: Xy7!9Q", got)
}

func TestRenderLeavesUnresolvedTokens(t *testing.T) {
	tmpl := &NotificationTemplate{
		Template: "Recibo {receiptNumber} por {currency} {amount}",
	}

	got := tmpl.Render(map[string]string{"receiptNumber": "R-001"})
	assert.Equal(t, "Recibo R-001 por {currency} {amount}", got)

	unresolved := UnresolvedPlaceholders(got)
	assert.ElementsMatch(t, []string{"{currency}", "{amount}"}, unresolved)
}

func TestRenderSinglePass(t *testing.T) {
	// a parameter value containing brace tokens must not be expanded again
	tmpl := &NotificationTemplate{Template: "Hola {name}"}

	got := tmpl.Render(map[string]string{
		"name":  "{other}",
		"other": "oops",
	})
	assert.Equal(t, "Hola {other}", got)
}

func TestRenderNoParams(t *testing.T) {
	tmpl := &NotificationTemplate{Template: "Corte programado el {date}"}
	assert.Equal(t, "Corte programado el {date}", tmpl.Render(nil))
}

func TestUpdateContent(t *testing.T) {
	tmpl, _ := NewTemplate(NotificationTemplate{Code: "OVERDUE_SMS", Channel: ChannelSMS})

	event := tmpl.UpdateContent("Pago vencido: S/ {amount}", []string{"amount"}, "admin")
	assert.Equal(t, "Pago vencido: S/ {amount}", tmpl.Template)
	assert.Equal(t, []string{"amount"}, tmpl.Variables)
	assert.Equal(t, "admin", tmpl.UpdatedBy)
	require.NotNil(t, tmpl.UpdatedAt)
	assert.Equal(t, "template.updated", event.EventName())
}
