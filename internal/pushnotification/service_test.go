package pushnotification

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stadtportal/city-portal-backend/config"
	"github.com/stadtportal/city-portal-backend/internal/auditlog"
	"github.com/stadtportal/city-portal-backend/internal/language"
	"github.com/stadtportal/city-portal-backend/internal/region"
)

type auditEntry struct {
	action string
	status string
}

// recordingAudit captures audit rows instead of writing them
type recordingAudit struct {
	entries []auditEntry
}

func (r *recordingAudit) LogAction(_ context.Context, _ *uint, _ *uint, action string, _ map[string]interface{}, _ string, status string) error {
	r.entries = append(r.entries, auditEntry{action: action, status: status})
	return nil
}

func (r *recordingAudit) LogAuthAction(_ context.Context, _ *uint, action string, _ string, _ string, status string) error {
	r.entries = append(r.entries, auditEntry{action: action, status: status})
	return nil
}

func (r *recordingAudit) GetAuditLogs(context.Context, auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return &auditlog.PaginatedAuditLogs{}, nil
}

func (r *recordingAudit) GetAuditLogByID(context.Context, uint) (*auditlog.AuditLogResponse, error) {
	return nil, gorm.ErrRecordNotFound
}

// stubChannel delivers nowhere and optionally fails topic sends
type stubChannel struct {
	topicErr error
	topics   []string
}

func (c *stubChannel) SendToTopic(topic, _, _ string) error {
	c.topics = append(c.topics, topic)
	return c.topicErr
}

func (c *stubChannel) SendToTokens([]string, string, string) ([]string, error) {
	return nil, nil
}

func newTestService(t *testing.T, channel Channel, audit auditlog.Service) (*Service, *region.Region, *language.Language) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&language.Language{},
		&language.LanguageTreeNode{},
		&region.Region{},
		&PushNotification{},
		&PushNotificationTranslation{},
		&FCMDeviceToken{},
	))

	lang := &language.Language{Slug: "de", BCP47Tag: "de-DE", NativeName: "Deutsch", EnglishName: "German"}
	require.NoError(t, db.Create(lang).Error)
	reg := &region.Region{Name: "Augsburg", Slug: "augsburg", DefaultLanguageID: lang.ID, IsActive: true}
	require.NoError(t, db.Create(reg).Error)
	require.NoError(t, db.Create(&language.LanguageTreeNode{
		RegionID:   reg.ID,
		LanguageID: lang.ID,
		Visible:    true,
	}).Error)

	svc := NewService(NewRepository(db), region.NewRepository(db), language.NewRepository(db), channel, audit, &config.Config{})
	return svc, reg, lang
}

func createReleased(t *testing.T, svc *Service, reg *region.Region, lang *language.Language) *PushNotification {
	t.Helper()
	draft := false
	pn, err := svc.Create(&CreatePushNotificationRequest{
		Draft: &draft,
		Translations: []TranslationInput{
			{LanguageID: lang.ID, Title: "Sturmwarnung", Text: "Der Markt fällt aus."},
		},
	}, reg.ID, 1, "127.0.0.1")
	require.NoError(t, err)
	return pn
}

func TestSendNowRecordsDispatchFailure(t *testing.T) {
	audit := &recordingAudit{}
	channel := &stubChannel{topicErr: errors.New("fcm unavailable")}
	svc, reg, lang := newTestService(t, channel, audit)
	pn := createReleased(t, svc, reg, lang)

	err := svc.SendNow(pn.ID, 1, "127.0.0.1")
	require.Error(t, err)

	require.NotEmpty(t, audit.entries)
	last := audit.entries[len(audit.entries)-1]
	assert.Equal(t, "PUSH_NOTIFICATION_SENT", last.action)
	assert.Equal(t, "failure", last.status)
}

func TestSendNowRecordsSuccessAfterDispatch(t *testing.T) {
	audit := &recordingAudit{}
	channel := &stubChannel{}
	svc, reg, lang := newTestService(t, channel, audit)
	pn := createReleased(t, svc, reg, lang)

	require.NoError(t, svc.SendNow(pn.ID, 1, "127.0.0.1"))

	assert.Equal(t, []string{"augsburg-de-news"}, channel.topics)
	require.NotEmpty(t, audit.entries)
	last := audit.entries[len(audit.entries)-1]
	assert.Equal(t, "PUSH_NOTIFICATION_SENT", last.action)
	assert.Equal(t, "success", last.status)
}
