package models

import "time"

// ContactMessage is a message left through the site's contact form.
type ContactMessage struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null"`
	Company   *string   `gorm:"column:company"`
	Budget    *string   `gorm:"column:budget"`
	Message   string    `gorm:"column:message;not null"`
	Status    string    `gorm:"column:status;not null;default:'new'"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ContactMessage) TableName() string { return "contacts" }

// NewsletterSubscriber is unique per e-mail; re-subscribing reactivates it.
type NewsletterSubscriber struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	Name         *string   `gorm:"column:name"`
	Status       string    `gorm:"column:status;not null;default:'active'"`
	SubscribedAt time.Time `gorm:"column:subscribed_at;not null"`
}

func (NewsletterSubscriber) TableName() string { return "newsletter_subscribers" }
