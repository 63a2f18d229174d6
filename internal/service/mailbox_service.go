package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"bizsim/internal/apperr"
	"bizsim/internal/metrics"
	"bizsim/internal/models"
)

// MailboxService is the simulated mail collaborator: a plain
// store-and-retrieve inbox/outbox with no delivery logic. A sent
// message lands in the outbox as "sent" and in the inbox as
// "delivered" under one shared ID, so both folders draw from a single
// sequence.
type MailboxService struct {
	mu     sync.Mutex
	nextID int
	inbox  []models.Email
	outbox []models.Email
	logger *zap.Logger
}

func NewMailboxService(logger *zap.Logger) *MailboxService {
	return &MailboxService{nextID: 1, logger: logger}
}

func (s *MailboxService) Send(req *models.EmailRequest) (models.Email, error) {
	if !emailPattern.MatchString(req.FromEmail) {
		return models.Email{}, apperr.Validation("email", "from_email", "invalid email format")
	}
	if !emailPattern.MatchString(req.ToEmail) {
		return models.Email{}, apperr.Validation("email", "to_email", "invalid email format")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sent := models.Email{
		ID:        s.nextID,
		FromEmail: req.FromEmail,
		ToEmail:   req.ToEmail,
		Subject:   req.Subject,
		Body:      req.Body,
		Timestamp: time.Now(),
		Status:    models.EmailStatusSent,
	}
	s.nextID++
	s.outbox = append(s.outbox, sent)

	delivered := sent
	delivered.Status = models.EmailStatusDelivered
	s.inbox = append(s.inbox, delivered)

	metrics.EmailsSent.Inc()
	s.logger.Info("email sent",
		zap.Int("email_id", sent.ID),
		zap.String("to", sent.ToEmail))
	return sent, nil
}

// List returns a folder's messages, optionally filtered by the
// relevant address (recipient for inbox, sender for outbox).
func (s *MailboxService) List(folder models.Folder, address string) ([]models.Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, err := s.folderLocked(folder)
	if err != nil {
		return nil, err
	}
	out := make([]models.Email, 0, len(msgs))
	for _, m := range msgs {
		if address != "" {
			if folder == models.FolderInbox && m.ToEmail != address {
				continue
			}
			if folder == models.FolderOutbox && m.FromEmail != address {
				continue
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *MailboxService) Get(folder models.Folder, id int) (models.Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, err := s.folderLocked(folder)
	if err != nil {
		return models.Email{}, err
	}
	for _, m := range msgs {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Email{}, apperr.NotFound("email", id)
}

func (s *MailboxService) Delete(folder models.Folder, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, err := s.folderLocked(folder)
	if err != nil {
		return err
	}
	for i, m := range msgs {
		if m.ID == id {
			msgs = append(msgs[:i], msgs[i+1:]...)
			if folder == models.FolderInbox {
				s.inbox = msgs
			} else {
				s.outbox = msgs
			}
			return nil
		}
	}
	return apperr.NotFound("email", id)
}

// MarkRead acknowledges an inbox message. The mock keeps no read flag;
// it only verifies the message exists.
func (s *MailboxService) MarkRead(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.inbox {
		if m.ID == id {
			return nil
		}
	}
	return apperr.NotFound("email", id)
}

func (s *MailboxService) ClearInbox() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.inbox)
	s.inbox = nil
	return n
}

func (s *MailboxService) ClearOutbox() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.outbox)
	s.outbox = nil
	return n
}

func (s *MailboxService) folderLocked(folder models.Folder) ([]models.Email, error) {
	switch folder {
	case models.FolderInbox:
		return s.inbox, nil
	case models.FolderOutbox:
		return s.outbox, nil
	default:
		return nil, apperr.Validation("email", "folder", "unknown folder %q", string(folder))
	}
}
