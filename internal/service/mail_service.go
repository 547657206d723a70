package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"Inkwell/internal/data"
	"Inkwell/internal/dto"
	"Inkwell/internal/model"

	"gorm.io/datatypes"
)

// MailQueue is the Redis list the mail worker pops notification ids from.
const MailQueue = "inkwell:mail"

type MailService struct {
	Data   *data.Data
	prefix string
}

func NewMailService(d *data.Data, subjectPrefix string) *MailService {
	return &MailService{Data: d, prefix: subjectPrefix}
}

// Send stores the mail as a Notification and queues it for the worker.
func (s *MailService) Send(ctx context.Context, to, subject, kind, body string) (*model.Notification, error) {
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return nil, err
	}
	if s.prefix != "" {
		subject = s.prefix + " " + subject
	}

	n := &model.Notification{
		Recipient: to,
		Subject:   subject,
		Kind:      kind,
		Payload:   datatypes.JSON(payload),
		Status:    model.NotificationPending,
	}
	if err := s.Data.DB.WithContext(ctx).Create(n).Error; err != nil {
		return nil, fmt.Errorf("save notification: %w", err)
	}

	// mark queued first, the worker may pick the task up immediately
	s.setStatus(n, model.NotificationQueued, "")
	task, _ := json.Marshal(dto.MailTask{NotificationID: n.ID})
	if err := s.Data.PushTask(ctx, MailQueue, string(task)); err != nil {
		log.Printf("❌ mail %d not queued: %v", n.ID, err)
		s.setStatus(n, model.NotificationFailed, err.Error())
		return n, fmt.Errorf("queue mail: %w", err)
	}
	return n, nil
}

func (s *MailService) setStatus(n *model.Notification, status, errMsg string) {
	n.Status = status
	n.ErrorMsg = errMsg
	err := s.Data.DB.Model(&model.Notification{}).Where("id = ?", n.ID).Updates(map[string]interface{}{
		"status":    status,
		"error_msg": errMsg,
	}).Error
	if err != nil {
		log.Printf("❌ notification %d: set status %s: %v", n.ID, status, err)
	}
}

// MailBody extracts the plain-text body stored by Send.
func MailBody(n *model.Notification) (string, error) {
	var payload struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(n.Payload, &payload); err != nil {
		return "", err
	}
	return payload.Body, nil
}
