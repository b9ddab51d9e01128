package pushnotification

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stadtportal/city-portal-backend/config"
	"github.com/stadtportal/city-portal-backend/internal/auditlog"
	"github.com/stadtportal/city-portal-backend/internal/language"
	"github.com/stadtportal/city-portal-backend/internal/region"
	"github.com/stadtportal/city-portal-backend/utils"
)

type Service struct {
	Repo       *Repository
	RegionRepo *region.Repository
	LangRepo   *language.Repository
	Channel    Channel
	AuditSvc   auditlog.Service
	Cfg        *config.Config
}

func NewService(r *Repository, regionRepo *region.Repository, langRepo *language.Repository, channel Channel, auditSvc auditlog.Service, cfg *config.Config) *Service {
	return &Service{
		Repo:       r,
		RegionRepo: regionRepo,
		LangRepo:   langRepo,
		Channel:    channel,
		AuditSvc:   auditSvc,
		Cfg:        cfg,
	}
}

// sendRequest is the message produced to the dispatch queue
type sendRequest struct {
	PushNotificationID uint `json:"push_notification_id"`
}

// ===========================
// 🎯 Create Push Notification
func (s *Service) Create(req *CreatePushNotificationRequest, regionID uint, userID uint, ip string) (*PushNotification, error) {
	if _, err := s.RegionRepo.GetByID(regionID); err != nil {
		return nil, errors.New("region not found")
	}

	channel := req.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeOnlyAvailable
	}
	if mode != ModeOnlyAvailable && mode != ModeUseMainLanguage {
		return nil, errors.New("invalid mode")
	}

	pn := &PushNotification{
		RegionID: regionID,
		Channel:  channel,
		Mode:     mode,
		Draft:    true,
	}
	if req.Draft != nil {
		pn.Draft = *req.Draft
	}
	if req.ScheduledSendDate != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledSendDate)
		if err != nil {
			return nil, errors.New("invalid scheduled_send_date, use RFC 3339")
		}
		pn.ScheduledSendDate = &at
	}

	seen := map[uint]bool{}
	for _, tr := range req.Translations {
		if seen[tr.LanguageID] {
			return nil, errors.New("duplicate translation language")
		}
		seen[tr.LanguageID] = true
		pn.Translations = append(pn.Translations, PushNotificationTranslation{
			LanguageID: tr.LanguageID,
			Title:      tr.Title,
			Text:       tr.Text,
		})
	}

	if err := s.Repo.Create(pn); err != nil {
		return nil, err
	}

	s.logAction(userID, regionID, "PUSH_NOTIFICATION_CREATED", map[string]interface{}{
		"push_notification_id": pn.ID,
		"channel":              channel,
	}, ip, "success")
	return pn, nil
}

// ===========================
// 🚀 Send Now
//
// Marks the notification sent exactly once and hands it to the dispatch
// queue. Without a queue the send happens synchronously.
func (s *Service) SendNow(id uint, userID uint, ip string) error {
	pn, err := s.Repo.GetByID(id)
	if err != nil {
		return errors.New("push notification not found")
	}
	if pn.Draft {
		return errors.New("draft notifications cannot be sent")
	}

	marked, err := s.Repo.MarkSent(pn.ID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !marked {
		return errors.New("push notification was already sent")
	}

	if err := s.enqueue(pn); err != nil {
		s.logAction(userID, pn.RegionID, "PUSH_NOTIFICATION_SENT", map[string]interface{}{
			"push_notification_id": pn.ID,
			"channel":              pn.Channel,
			"error":                err.Error(),
		}, ip, "failure")
		return err
	}

	s.logAction(userID, pn.RegionID, "PUSH_NOTIFICATION_SENT", map[string]interface{}{
		"push_notification_id": pn.ID,
		"channel":              pn.Channel,
	}, ip, "success")
	return nil
}

func (s *Service) enqueue(pn *PushNotification) error {
	if utils.IsKafkaEnabled() {
		payload, err := json.Marshal(sendRequest{PushNotificationID: pn.ID})
		if err != nil {
			return err
		}
		return utils.PublishPushMessage(context.Background(), pn.Channel, payload)
	}
	return s.dispatch(pn)
}

// dispatch resolves the per-language messages and delivers them. Languages
// without an own translation are skipped or served the region default
// language text, depending on the notification's mode.
func (s *Service) dispatch(pn *PushNotification) error {
	reg, err := s.RegionRepo.GetByID(pn.RegionID)
	if err != nil {
		return err
	}
	nodes, err := s.LangRepo.ListTree(pn.RegionID)
	if err != nil {
		return err
	}

	byLanguage := map[uint]*PushNotificationTranslation{}
	for i := range pn.Translations {
		byLanguage[pn.Translations[i].LanguageID] = &pn.Translations[i]
	}
	defaultTr := byLanguage[reg.DefaultLanguageID]

	var lastErr error
	for _, node := range nodes {
		if !node.Visible {
			continue
		}
		tr := byLanguage[node.LanguageID]
		if tr == nil {
			if pn.Mode != ModeUseMainLanguage || defaultTr == nil {
				continue
			}
			tr = defaultTr
		}

		topic := TopicName(reg.Slug, node.Language.Slug, pn.Channel)
		if err := s.Channel.SendToTopic(topic, tr.Title, tr.Text); err != nil {
			log.Printf("❌ Push delivery to topic %s failed: %v", topic, err)
			lastErr = err
		}

		tokens, err := s.Repo.ActiveTokens(pn.RegionID, node.LanguageID)
		if err != nil {
			lastErr = err
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		failed, err := s.Channel.SendToTokens(tokens, tr.Title, tr.Text)
		if err != nil {
			log.Printf("❌ Push delivery to %d tokens failed: %v", len(tokens), err)
			lastErr = err
			continue
		}
		for _, token := range failed {
			if err := s.Repo.DeactivateToken(token); err != nil {
				lastErr = err
			}
		}
	}
	return lastErr
}

// ===========================
// 📨 Dispatch queue consumer
//
// Runs until the context is cancelled; safe to run on several instances
// since consumers share a group.
func (s *Service) StartKafkaConsumer(ctx context.Context) {
	reader := utils.NewPushReader()
	if reader == nil {
		return
	}
	log.Println("📨 Push notification consumer started")

	go func() {
		defer reader.Close()
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("❌ Push consumer read error: %v", err)
				continue
			}

			var req sendRequest
			if err := json.Unmarshal(msg.Value, &req); err != nil {
				log.Printf("❌ Push consumer: malformed message: %v", err)
				continue
			}
			pn, err := s.Repo.GetByID(req.PushNotificationID)
			if err != nil {
				log.Printf("❌ Push consumer: notification %d not found", req.PushNotificationID)
				continue
			}
			if err := s.dispatch(pn); err != nil {
				log.Printf("❌ Push consumer: delivery of %d incomplete: %v", pn.ID, err)
			}
		}
	}()
}

// ===========================
// ⏰ Scheduled sends
//
// Checks every minute for released notifications whose scheduled send date
// has passed and hands them to the dispatch queue.
func (s *Service) StartScheduler() *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@every 1m", func() {
		due, err := s.Repo.ListDueScheduled(time.Now().UTC())
		if err != nil {
			log.Printf("❌ Scheduled push check failed: %v", err)
			return
		}
		for i := range due {
			pn := &due[i]
			marked, err := s.Repo.MarkSent(pn.ID, time.Now().UTC())
			if err != nil || !marked {
				continue
			}
			if err := s.enqueue(pn); err != nil {
				log.Printf("❌ Scheduled push %d dispatch failed: %v", pn.ID, err)
			}
		}
	})
	if err != nil {
		log.Printf("❌ Failed to register push scheduler: %v", err)
		return c
	}
	c.Start()
	log.Println("⏰ Push notification scheduler started")
	return c
}

// ===========================
// 📱 Device token registration
func (s *Service) RegisterToken(regionID, languageID uint, req *RegisterTokenRequest) error {
	if _, err := s.RegionRepo.GetByID(regionID); err != nil {
		return errors.New("region not found")
	}
	return s.Repo.UpsertToken(&FCMDeviceToken{
		RegionID:    regionID,
		LanguageID:  languageID,
		DeviceToken: req.DeviceToken,
		DeviceType:  req.DeviceType,
		IsActive:    true,
		LastUsedAt:  time.Now().UTC(),
	})
}

// ===========================
// 🌍 Public sent notifications
func (s *Service) SentNotifications(reg *region.Region, langID uint, channel string) ([]SentPayload, error) {
	if channel == "" {
		channel = DefaultChannel
	}
	pns, err := s.Repo.ListSent(reg.ID, channel)
	if err != nil {
		return nil, err
	}

	payloads := make([]SentPayload, 0, len(pns))
	for i := range pns {
		pn := &pns[i]
		var tr *PushNotificationTranslation
		for j := range pn.Translations {
			if pn.Translations[j].LanguageID == langID {
				tr = &pn.Translations[j]
				break
			}
		}
		if tr == nil && pn.Mode == ModeUseMainLanguage {
			for j := range pn.Translations {
				if pn.Translations[j].LanguageID == reg.DefaultLanguageID {
					tr = &pn.Translations[j]
					break
				}
			}
		}
		if tr == nil {
			continue
		}
		payloads = append(payloads, SentPayload{
			ID:          pn.ID,
			Title:       tr.Title,
			Message:     tr.Text,
			Channel:     pn.Channel,
			SentDate:    pn.SentDate.UTC().Format(time.RFC3339),
			LastUpdated: tr.LastUpdated.UTC().Format(time.RFC3339),
		})
	}
	return payloads, nil
}

func (s *Service) logAction(userID, regionID uint, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(context.Background(), &userID, &regionID, action, details, ip, status)
}
