package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notification-service/internal/domain"
	"notification-service/pkg/transport"
	"notification-service/pkg/xerrors"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeNotificationRepo struct {
	store   map[string]*domain.Notification
	saveErr error
	findErr error
	saves   int
	creates int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{store: map[string]*domain.Notification{}}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	r.creates++
	n.Version = 1
	cp := *n
	r.store[n.ID] = &cp
	return n, nil
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	r.saves++
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	n.Version++
	cp := *n
	r.store[n.ID] = &cp
	return n, nil
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id string) (*domain.Notification, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	n, ok := r.store[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNotificationRepo) FindByUserID(_ context.Context, userID string, limit, offset int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.store {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) FindByStatus(_ context.Context, status domain.Status, limit, offset int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.store {
		if n.Status == status {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) FindUnreadByUserID(_ context.Context, userID string) ([]*domain.Notification, error) {
	return nil, nil
}

type fakeTemplateRepo struct {
	templates map[string]*domain.NotificationTemplate
}

func (r *fakeTemplateRepo) Create(_ context.Context, t *domain.NotificationTemplate) (*domain.NotificationTemplate, error) {
	return t, nil
}

func (r *fakeTemplateRepo) Save(_ context.Context, t *domain.NotificationTemplate) (*domain.NotificationTemplate, error) {
	return t, nil
}

func (r *fakeTemplateRepo) FindByCode(_ context.Context, code string) (*domain.NotificationTemplate, error) {
	t, ok := r.templates[code]
	if !ok {
		return nil, xerrors.ErrTemplateNotFound
	}
	return t, nil
}

func (r *fakeTemplateRepo) FindByChannel(_ context.Context, channel domain.Channel) ([]*domain.NotificationTemplate, error) {
	return nil, nil
}

func (r *fakeTemplateRepo) FindActive(_ context.Context) ([]*domain.NotificationTemplate, error) {
	return nil, nil
}

type fakeTransport struct {
	channel    domain.Channel
	provider   string
	providerID string
	err        error
	calls      int
	lastSent   *domain.Notification
}

func (t *fakeTransport) Channel() domain.Channel { return t.channel }
func (t *fakeTransport) ProviderName() string    { return t.provider }

func (t *fakeTransport) Send(_ context.Context, n *domain.Notification) (string, error) {
	t.calls++
	cp := *n
	t.lastSent = &cp
	if t.err != nil {
		return "", t.err
	}
	return t.providerID, nil
}

type recordingPublisher struct {
	events []domain.DomainEvent
}

func (p *recordingPublisher) Publish(event domain.DomainEvent) {
	p.events = append(p.events, event)
}

func (p *recordingPublisher) names() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventName())
	}
	return out
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type sendFixture struct {
	repo      *fakeNotificationRepo
	templates *fakeTemplateRepo
	sms       *fakeTransport
	publisher *recordingPublisher
	uc        *SendNotificationUsecase
}

func newSendFixture() *sendFixture {
	repo := newFakeNotificationRepo()
	templates := &fakeTemplateRepo{templates: map[string]*domain.NotificationTemplate{}}
	sms := &fakeTransport{channel: domain.ChannelSMS, provider: "LOCAL_SMS_GATEWAY", providerID: "msg-1"}
	publisher := &recordingPublisher{}

	uc := NewSendNotificationUsecase(
		repo,
		templates,
		transport.NewRegistry(sms),
		publisher,
		DefaultTimeouts(),
		zap.NewNop(),
	)
	return &sendFixture{repo: repo, templates: templates, sms: sms, publisher: publisher, uc: uc}
}

func smsNotification() domain.Notification {
	return domain.Notification{
		UserID:    "user-1",
		Channel:   domain.ChannelSMS,
		Recipient: "+51987654321",
		Type:      domain.TypePaymentReceived,
		Message:   "Pago recibido: S/ 25.50",
		Priority:  domain.PriorityNormal,
		CreatedBy: "SYSTEM",
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCreateAndSendSuccess(t *testing.T) {
	f := newSendFixture()

	n, err := f.uc.Create(context.Background(), smsNotification())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSent, n.Status)
	assert.Equal(t, "LOCAL_SMS_GATEWAY", n.ProviderName)
	assert.Equal(t, "msg-1", n.ProviderID)
	require.NotNil(t, n.SentAt)
	assert.Equal(t, 1, f.sms.calls)
	assert.Equal(t, 1, f.repo.creates)
	assert.Equal(t, 1, f.repo.saves, "one delivery attempt means one write")
	assert.Equal(t, []string{"notification.created", "notification.sent"}, f.publisher.names())
}

func TestSendTransportFailureIsDataNotError(t *testing.T) {
	f := newSendFixture()
	f.sms.err = errors.New("gateway timeout")

	n, err := f.uc.Create(context.Background(), smsNotification())
	require.NoError(t, err, "a delivery failure is an outcome, not an error")

	assert.Equal(t, domain.StatusFailed, n.Status)
	assert.Equal(t, "gateway timeout", n.ErrorMessage)
	assert.Nil(t, n.SentAt)
	assert.Equal(t, []string{"notification.created", "notification.failed"}, f.publisher.names())
}

func TestSendUnknownChannelFails(t *testing.T) {
	f := newSendFixture()

	req := smsNotification()
	req.Channel = domain.ChannelWhatsApp // not registered in the fixture

	n, err := f.uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, n.Status)
	assert.Contains(t, n.ErrorMessage, xerrors.ErrInvalidChannel.Error())
}

func TestSendResolvesTemplate(t *testing.T) {
	f := newSendFixture()
	f.templates.templates["PAYMENT_SMS"] = &domain.NotificationTemplate{
		Code:     "PAYMENT_SMS",
		Channel:  domain.ChannelSMS,
		Template: "Pago recibido: S/ {amount}. Recibo: {receiptNumber}.",
		Status:   domain.TemplateActive,
	}

	req := smsNotification()
	req.Message = ""
	req.TemplateID = "PAYMENT_SMS"
	req.TemplateParams = map[string]string{"amount": "25.50", "receiptNumber": "R-001"}

	n, err := f.uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, n.Status)
	require.NotNil(t, f.sms.lastSent)
	assert.Equal(t, "Pago recibido: S/ 25.50. Recibo: R-001.", f.sms.lastSent.Message)
}

func TestSendTemplateSubjectAdopted(t *testing.T) {
	f := newSendFixture()
	email := &fakeTransport{channel: domain.ChannelEmail, provider: "SMTP_SERVER", providerID: "<id@host>"}
	f.uc.transports = transport.NewRegistry(email)
	f.templates.templates["USER_CREDENTIALS_TEMPLATE"] = &domain.NotificationTemplate{
		Code:     "USER_CREDENTIALS_TEMPLATE",
		Channel:  domain.ChannelEmail,
		Subject:  "Credenciales de Acceso",
		Template: "Usuario: {username}",
		Status:   domain.TemplateActive,
	}

	req := smsNotification()
	req.Channel = domain.ChannelEmail
	req.Recipient = "juan@example.com"
	req.Message = ""
	req.Subject = ""
	req.TemplateID = "USER_CREDENTIALS_TEMPLATE"
	req.TemplateParams = map[string]string{"username": "juan.perez"}

	n, err := f.uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Credenciales de Acceso", n.Subject)
	assert.Equal(t, "Usuario: juan.perez", n.Message)
}

func TestSendTemplateNotFound(t *testing.T) {
	f := newSendFixture()

	req := smsNotification()
	req.Message = ""
	req.TemplateID = "NO_SUCH_TEMPLATE"

	_, err := f.uc.Create(context.Background(), req)
	assert.ErrorIs(t, err, xerrors.ErrTemplateNotFound)
	assert.Equal(t, 0, f.sms.calls, "no transport call without content")
}

func TestSendExplicitMessageSkipsTemplate(t *testing.T) {
	f := newSendFixture()

	req := smsNotification()
	req.TemplateID = "NO_SUCH_TEMPLATE" // would fail if resolved

	n, err := f.uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, n.Status)
	assert.Equal(t, "Pago recibido: S/ 25.50", n.Message)
}

func TestSendPersistsRetryCount(t *testing.T) {
	f := newSendFixture()

	n, _ := domain.NewNotification(smsNotification())
	_, err := f.repo.Create(context.Background(), n)
	require.NoError(t, err)
	n.Status = domain.StatusFailed
	n.RetryCount = 2
	require.NoError(t, n.IncrementRetry())

	saved, err := f.uc.Send(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, 3, saved.RetryCount, "the send's single write carries the bumped counter")
	assert.Equal(t, domain.StatusSent, saved.Status)
}
