package notify

import (
	"context"
	"fmt"

	"github.com/Zmley/warehouse-admin-sub001/config"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// TransferNotice describes a transfer waiting at the destination warehouse.
type TransferNotice struct {
	Transfer             models.Transfer
	SourceWarehouse      string
	DestinationWarehouse string
	SourceBinCode        string
	Recipients           []string
}

type Notifier interface {
	TransferCreated(ctx context.Context, notice TransferNotice) error
}

// Nop drops every notification. Used when SMTP is not configured.
type Nop struct{}

func (Nop) TransferCreated(context.Context, TransferNotice) error { return nil }

type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// New returns an SMTP notifier, or Nop when no SMTP host is configured.
func New(cfg config.MailConfig, logger *zap.Logger) Notifier {
	if !cfg.Enabled() {
		return Nop{}
	}
	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (n *SMTPNotifier) TransferCreated(ctx context.Context, notice TransferNotice) error {
	if len(notice.Recipients) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", notice.Recipients...)
	msg.SetHeader("Subject", transferSubject(notice))
	msg.SetBody("text/html", transferBody(notice))

	if err := n.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send transfer notice: %w", err)
	}
	n.logger.Info("transfer notice sent",
		zap.String("transfer_id", notice.Transfer.TransferID.String()),
		zap.Strings("to", notice.Recipients))
	return nil
}

func transferSubject(notice TransferNotice) string {
	return fmt.Sprintf("New transfer %s from %s", notice.Transfer.TransferID, notice.SourceWarehouse)
}

func transferBody(notice TransferNotice) string {
	return fmt.Sprintf(`
		<html>
			<body>
				<h3>New transfer to %s</h3>
				<p>Transfer ID: <strong>%s</strong></p>
				<p>Product: <strong>%s</strong>, quantity <strong>%d</strong></p>
				<p>From bin %s in warehouse %s</p>
				<p>This is an auto-generated email. Please do not reply to this email or its recipients.</p>
			</body>
		</html>
	`, notice.DestinationWarehouse, notice.Transfer.TransferID, notice.Transfer.ProductCode,
		notice.Transfer.Quantity, notice.SourceBinCode, notice.SourceWarehouse)
}
