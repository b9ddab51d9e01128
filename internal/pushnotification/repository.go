package pushnotification

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(pn *PushNotification) error {
	return r.DB.Create(pn).Error
}

func (r *Repository) GetByID(id uint) (*PushNotification, error) {
	var pn PushNotification
	err := r.DB.Preload("Translations").First(&pn, id).Error
	if err != nil {
		return nil, err
	}
	return &pn, nil
}

func (r *Repository) Save(pn *PushNotification) error {
	return r.DB.Save(pn).Error
}

func (r *Repository) ListByRegion(regionID uint) ([]PushNotification, error) {
	var pns []PushNotification
	err := r.DB.
		Preload("Translations").
		Where("region_id = ?", regionID).
		Order("created_at DESC").
		Find(&pns).Error
	return pns, err
}

// ListSent returns sent notifications of a region channel, newest first
func (r *Repository) ListSent(regionID uint, channel string) ([]PushNotification, error) {
	var pns []PushNotification
	err := r.DB.
		Preload("Translations").
		Where("region_id = ? AND channel = ? AND sent_date IS NOT NULL", regionID, channel).
		Order("sent_date DESC").
		Find(&pns).Error
	return pns, err
}

// ListDueScheduled returns released notifications whose scheduled send date
// has passed and which were not sent yet.
func (r *Repository) ListDueScheduled(now time.Time) ([]PushNotification, error) {
	var pns []PushNotification
	err := r.DB.
		Preload("Translations").
		Where("draft = FALSE AND sent_date IS NULL AND scheduled_send_date IS NOT NULL AND scheduled_send_date <= ?", now).
		Find(&pns).Error
	return pns, err
}

// MarkSent stamps the sent date exactly once; returns false when another
// worker already sent it.
func (r *Repository) MarkSent(id uint, at time.Time) (bool, error) {
	result := r.DB.Model(&PushNotification{}).
		Where("id = ? AND sent_date IS NULL", id).
		Update("sent_date", at)
	return result.RowsAffected > 0, result.Error
}

func (r *Repository) Delete(pn *PushNotification) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("push_notification_id = ?", pn.ID).Delete(&PushNotificationTranslation{}).Error; err != nil {
			return err
		}
		return tx.Delete(pn).Error
	})
}

// ===========================
// 📱 Device tokens

// UpsertToken registers or refreshes a device token
func (r *Repository) UpsertToken(t *FCMDeviceToken) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "device_token"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"region_id", "language_id", "device_type", "is_active", "last_used_at",
		}),
	}).Create(t).Error
}

func (r *Repository) ActiveTokens(regionID, languageID uint) ([]string, error) {
	var tokens []string
	err := r.DB.Model(&FCMDeviceToken{}).
		Where("region_id = ? AND language_id = ? AND is_active = TRUE", regionID, languageID).
		Pluck("device_token", &tokens).Error
	return tokens, err
}

// DeactivateToken disables a token FCM reported as invalid
func (r *Repository) DeactivateToken(token string) error {
	return r.DB.Model(&FCMDeviceToken{}).
		Where("device_token = ?", token).
		Update("is_active", false).Error
}
