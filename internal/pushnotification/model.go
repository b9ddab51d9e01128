package pushnotification

import (
	"time"
)

// Send modes control what happens for languages without an own translation
const (
	ModeOnlyAvailable   = "ONLY_AVAILABLE"    // skip languages without a translation
	ModeUseMainLanguage = "USE_MAIN_LANGUAGE" // fall back to the region default language
)

// DefaultChannel is the channel subscribers get when none is picked
const DefaultChannel = "news"

// PushNotification is one news message of a region, sent to app subscribers
// via Firebase topics. Draft messages and scheduled messages are not sent
// until released.
type PushNotification struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	RegionID          uint       `gorm:"not null;index" json:"region_id"`
	Channel           string     `gorm:"size:60;not null;default:news" json:"channel"`
	Mode              string     `gorm:"size:20;not null;default:ONLY_AVAILABLE" json:"mode"`
	Draft             bool       `gorm:"default:true" json:"draft"`
	ScheduledSendDate *time.Time `gorm:"index" json:"scheduled_send_date,omitempty"`
	SentDate          *time.Time `json:"sent_date,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Translations []PushNotificationTranslation `gorm:"foreignKey:PushNotificationID" json:"translations,omitempty"`
}

// TableName overrides table name for PushNotification
func (PushNotification) TableName() string {
	return "push_notifications"
}

// PushNotificationTranslation is the message text in one language. Unlike
// content translations these are not revisioned; each language has at most
// one row per notification.
type PushNotificationTranslation struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	PushNotificationID uint      `gorm:"not null;index:idx_pnt_notification_language,unique" json:"push_notification_id"`
	LanguageID         uint      `gorm:"not null;index:idx_pnt_notification_language,unique" json:"language_id"`
	Title              string    `gorm:"size:250;not null" json:"title"`
	Text               string    `gorm:"type:text" json:"text"`
	LastUpdated        time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName overrides table name for PushNotificationTranslation
func (PushNotificationTranslation) TableName() string {
	return "push_notification_translations"
}

// FCMDeviceToken stores an app installation's device token, registered per
// region and language so direct sends can target the right audience.
type FCMDeviceToken struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RegionID    uint      `gorm:"not null;index" json:"region_id"`
	LanguageID  uint      `gorm:"not null;index" json:"language_id"`
	DeviceToken string    `gorm:"size:255;not null;uniqueIndex" json:"device_token"`
	DeviceType  string    `gorm:"size:20" json:"device_type"` // android, ios, web
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	LastUsedAt  time.Time `json:"last_used_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for FCMDeviceToken
func (FCMDeviceToken) TableName() string {
	return "fcm_device_tokens"
}

// ============================
// 🟡 Request DTOs

type TranslationInput struct {
	LanguageID uint   `json:"language_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Text       string `json:"text"`
}

type CreatePushNotificationRequest struct {
	Channel           string             `json:"channel"`
	Mode              string             `json:"mode"`
	Draft             *bool              `json:"draft,omitempty"`
	ScheduledSendDate string             `json:"scheduled_send_date,omitempty"` // RFC 3339
	Translations      []TranslationInput `json:"translations" binding:"required,min=1"`
}

type RegisterTokenRequest struct {
	DeviceToken string `json:"device_token" binding:"required"`
	DeviceType  string `json:"device_type"`
}

// ============================
// 🟡 Public payload

type SentPayload struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Channel     string `json:"channel"`
	SentDate    string `json:"sent_date"`
	LastUpdated string `json:"last_updated"`
}
