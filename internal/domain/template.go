package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var placeholderRe = regexp.MustCompile(`\{[a-zA-Z0-9_.]+\}`)

// NotificationTemplate is a reusable message template keyed by a unique
// business code, e.g. "RECEIPT_SMS" or "USER_CREDENTIALS_TEMPLATE".
type NotificationTemplate struct {
	ID        string
	Code      string
	Name      string
	Channel   Channel
	Subject   string // EMAIL only
	Template  string // raw text with {placeholder} tokens
	Variables []string
	Status    TemplateStatus
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt *time.Time
	UpdatedBy string
}

// NewTemplate creates a DRAFT template and returns the created event.
func NewTemplate(t NotificationTemplate) (*NotificationTemplate, DomainEvent) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.Status = TemplateDraft
	t.CreatedAt = time.Now()
	return &t, NewTemplateCreatedEvent(&t)
}

func (t *NotificationTemplate) Activate() {
	t.Status = TemplateActive
	now := time.Now()
	t.UpdatedAt = &now
}

func (t *NotificationTemplate) Deactivate() {
	t.Status = TemplateInactive
	now := time.Now()
	t.UpdatedAt = &now
}

// UpdateContent replaces the template body in place (versionless edit) and
// returns the update event.
func (t *NotificationTemplate) UpdateContent(template string, variables []string, updatedBy string) DomainEvent {
	t.Template = template
	t.Variables = variables
	t.UpdatedBy = updatedBy
	now := time.Now()
	t.UpdatedAt = &now
	return NewTemplateUpdatedEvent(t)
}

func (t *NotificationTemplate) IsActive() bool {
	return t.Status == TemplateActive
}

// Render substitutes every {key} token with params[key] in a single pass.
// Unresolved tokens are left verbatim, and a parameter value containing braces
// is never re-scanned: keys are matched, not replaced text.
func (t *NotificationTemplate) Render(params map[string]string) string {
	if len(params) == 0 {
		return t.Template
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(t.Template)
}

// UnresolvedPlaceholders lists the {key} tokens left in a rendered body.
// Callers flag these at warn level; unresolved tokens are not an error.
func UnresolvedPlaceholders(rendered string) []string {
	return placeholderRe.FindAllString(rendered, -1)
}
