// Package contact stores contact-form messages and newsletter subscriptions.
package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexusagency/nexus-backend/pkg/db/models"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
)

const (
	statusNew    = "new"
	statusActive = "active"
)

// MessageInput is a contact-form submission.
type MessageInput struct {
	Name    string  `json:"name" validate:"required,max=120"`
	Email   string  `json:"email" validate:"required,email"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=120"`
	Budget  *string `json:"budget,omitempty" validate:"omitempty,max=60"`
	Message string  `json:"message" validate:"required,min=10,max=5000"`
}

// Service persists inbound contact data.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &Service{db: db, now: time.Now}, nil
}

// SubmitMessage stores a contact message with status "new".
func (s *Service) SubmitMessage(ctx context.Context, in MessageInput) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Company: in.Company,
		Budget:  in.Budget,
		Message: strings.TrimSpace(in.Message),
		Status:  statusNew,
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store contact message")
	}
	return msg, nil
}

// Subscribe adds email to the newsletter. An existing subscriber is
// reactivated rather than duplicated.
func (s *Service) Subscribe(ctx context.Context, email string, name *string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	sub := models.NewsletterSubscriber{
		Email:        email,
		Name:         name,
		Status:       statusActive,
		SubscribedAt: s.now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "subscribed_at"}),
	}).Create(&sub).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store newsletter subscription")
	}
	return nil
}
