package mailer

import (
	"context"

	"github.com/costschef/user-service/pkg/helpers"
)

// QueueSender enqueues mail jobs for the email worker instead of sending
// inline. A failed publish is reported to the caller the same way a failed
// direct send would be.
type QueueSender struct {
	Pub *helpers.RabbitPublisher
}

func NewQueueSender(pub *helpers.RabbitPublisher) *QueueSender {
	return &QueueSender{Pub: pub}
}

func (s *QueueSender) SendOTPEmail(ctx context.Context, to, subject, body string) error {
	return s.Pub.PublishJSON(ctx, EmailJob{To: to, Subject: subject, Text: body})
}
