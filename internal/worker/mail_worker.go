package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"Inkwell/internal/data"
	"Inkwell/internal/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/service"

	"gorm.io/gorm"
)

// MailWorker drains the mail queue and delivers each Notification.
type MailWorker struct {
	data        *data.Data
	sender      Sender
	pollTimeout time.Duration
}

func NewMailWorker(d *data.Data, sender Sender) *MailWorker {
	return &MailWorker{data: d, sender: sender, pollTimeout: 5 * time.Second}
}

// Start launches numWorkers loops; they stop when ctx is cancelled.
func (w *MailWorker) Start(ctx context.Context, numWorkers int) {
	log.Printf("🚀 starting %d mail workers on %s", numWorkers, service.MailQueue)
	for i := 0; i < numWorkers; i++ {
		go w.processLoop(ctx, i)
	}
}

func (w *MailWorker) processLoop(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		payload, err := w.data.PopTask(ctx, service.MailQueue, w.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[mail-%d] waiting for tasks... (%v)", workerID, err)
			time.Sleep(3 * time.Second)
			continue
		}
		if payload == "" {
			continue
		}

		if err := w.Handle(ctx, payload); err != nil {
			log.Printf("[mail-%d] ❌ %s: %v", workerID, payload, err)
		} else {
			log.Printf("[mail-%d] ✅ %s", workerID, payload)
		}
	}
}

// Handle delivers the notification named by one queue payload and records
// the outcome on it. Already sent notifications are skipped.
func (w *MailWorker) Handle(ctx context.Context, payload string) error {
	var task dto.MailTask
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return fmt.Errorf("bad task payload: %w", err)
	}

	var n model.Notification
	if err := w.data.DB.WithContext(ctx).First(&n, task.NotificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("notification %d not found", task.NotificationID)
		}
		return err
	}
	if n.Status == model.NotificationSent {
		return nil
	}

	body, err := service.MailBody(&n)
	if err != nil {
		w.updateStatus(n.ID, model.NotificationFailed, err.Error())
		return err
	}
	if err := w.sender.Send(ctx, n.Recipient, n.Subject, body); err != nil {
		w.updateStatus(n.ID, model.NotificationFailed, err.Error())
		return err
	}
	w.updateStatus(n.ID, model.NotificationSent, "")
	return nil
}

func (w *MailWorker) updateStatus(id uint, status, errMsg string) {
	updates := map[string]interface{}{
		"status":    status,
		"error_msg": errMsg,
	}
	if status == model.NotificationSent {
		updates["sent_at"] = time.Now().UTC()
	}
	if err := w.data.DB.Model(&model.Notification{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		log.Printf("❌ notification %d: set status %s: %v", id, status, err)
	}
}
