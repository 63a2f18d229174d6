package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bizsim/internal/apperr"
	"bizsim/internal/models"
)

func sendTestEmail(t *testing.T, mailbox *MailboxService, from, to string) models.Email {
	t.Helper()
	email, err := mailbox.Send(&models.EmailRequest{
		FromEmail: from,
		ToEmail:   to,
		Subject:   "hello",
		Body:      "body",
	})
	require.NoError(t, err)
	return email
}

func TestSendLandsInBothFolders(t *testing.T) {
	mailbox := NewMailboxService(zap.NewNop())
	sent := sendTestEmail(t, mailbox, "a@x.test", "b@y.test")

	assert.Equal(t, models.EmailStatusSent, sent.Status)

	out, err := mailbox.Get(models.FolderOutbox, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EmailStatusSent, out.Status)

	// Same ID, delivered copy in the inbox.
	in, err := mailbox.Get(models.FolderInbox, sent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EmailStatusDelivered, in.Status)
	assert.Equal(t, out.Subject, in.Subject)
}

func TestSendValidatesAddresses(t *testing.T) {
	mailbox := NewMailboxService(zap.NewNop())

	_, err := mailbox.Send(&models.EmailRequest{
		FromEmail: "bad", ToEmail: "b@y.test", Subject: "s", Body: "b",
	})
	assert.True(t, apperr.IsValidation(err))

	_, err = mailbox.Send(&models.EmailRequest{
		FromEmail: "a@x.test", ToEmail: "also bad", Subject: "s", Body: "b",
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestListFiltersByAddress(t *testing.T) {
	mailbox := NewMailboxService(zap.NewNop())
	sendTestEmail(t, mailbox, "a@x.test", "b@y.test")
	sendTestEmail(t, mailbox, "a@x.test", "c@z.test")
	sendTestEmail(t, mailbox, "d@w.test", "b@y.test")

	inbox, err := mailbox.List(models.FolderInbox, "b@y.test")
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	outbox, err := mailbox.List(models.FolderOutbox, "a@x.test")
	require.NoError(t, err)
	assert.Len(t, outbox, 2)

	all, err := mailbox.List(models.FolderOutbox, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = mailbox.List("drafts", "")
	assert.True(t, apperr.IsValidation(err))
}

func TestDeleteIsPerFolder(t *testing.T) {
	mailbox := NewMailboxService(zap.NewNop())
	sent := sendTestEmail(t, mailbox, "a@x.test", "b@y.test")

	require.NoError(t, mailbox.Delete(models.FolderInbox, sent.ID))

	_, err := mailbox.Get(models.FolderInbox, sent.ID)
	assert.True(t, apperr.IsNotFound(err))

	// Outbox copy is untouched.
	_, err = mailbox.Get(models.FolderOutbox, sent.ID)
	assert.NoError(t, err)

	assert.True(t, apperr.IsNotFound(mailbox.Delete(models.FolderInbox, sent.ID)))
}

func TestMarkRead(t *testing.T) {
	mailbox := NewMailboxService(zap.NewNop())
	sent := sendTestEmail(t, mailbox, "a@x.test", "b@y.test")

	assert.NoError(t, mailbox.MarkRead(sent.ID))
	assert.True(t, apperr.IsNotFound(mailbox.MarkRead(999)))
}

func TestClearKeepsIDSequence(t *testing.T) {
	mailbox := NewMailboxService(zap.NewNop())
	sendTestEmail(t, mailbox, "a@x.test", "b@y.test")
	sendTestEmail(t, mailbox, "a@x.test", "b@y.test")

	assert.Equal(t, 2, mailbox.ClearInbox())
	assert.Equal(t, 2, mailbox.ClearOutbox())

	next := sendTestEmail(t, mailbox, "a@x.test", "b@y.test")
	assert.Equal(t, 3, next.ID, "IDs keep counting across clears")
}
