package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"github.com/JoshiWorld/rechnungssteller-api/internal/config"
	"github.com/JoshiWorld/rechnungssteller-api/internal/order"
)

// ErrTransport marks a failure in the SMTP conversation, as opposed to a
// failure rendering the invoice.
var ErrTransport = errors.New("mail transport failed")

const (
	invoiceSubject = "BROKOLY MUSIC INVOICE"
	invoiceBody    = "Bitte nicht auf diese E-Mail antworten!"
	sendTimeout    = 30 * time.Second
)

// Renderer produces the attachment bytes for an order.
type Renderer interface {
	Render(o *order.Detail) ([]byte, error)
}

// Dispatcher mails rendered invoices to the order's user. One send per call;
// calling twice sends twice.
type Dispatcher struct {
	cfg      config.SMTPConfig
	renderer Renderer
	send     func(ctx context.Context, msg *mail.Msg) error
}

func NewDispatcher(cfg config.SMTPConfig, renderer Renderer) (*Dispatcher, error) {
	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithPort(cfg.Port), mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: failed to create smtp client: %w", err)
	}

	return &Dispatcher{
		cfg:      cfg,
		renderer: renderer,
		send: func(ctx context.Context, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
	}, nil
}

// SendInvoice renders the order's invoice and mails it to the order's user
// with the configured bcc. Render failures surface as-is; transport failures
// wrap ErrTransport.
func (d *Dispatcher) SendInvoice(ctx context.Context, o *order.Detail) error {
	pdf, err := d.renderer.Render(o)
	if err != nil {
		log.Error().Err(err).Str("invoice", o.Invoice).Msg("mailer: failed to render invoice")
		return fmt.Errorf("mailer: failed to render invoice %s: %w", o.Invoice, err)
	}

	msg, err := d.buildMessage(o, pdf)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := d.send(sendCtx, msg); err != nil {
		log.Error().Err(err).Str("invoice", o.Invoice).Str("recipient", o.User.Email).Msg("mailer: failed to send invoice")
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	log.Info().Str("invoice", o.Invoice).Str("recipient", o.User.Email).Msg("mailer: invoice sent")
	return nil
}

func (d *Dispatcher) buildMessage(o *order.Detail, pdf []byte) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(d.cfg.FromName, d.cfg.From); err != nil {
		return nil, fmt.Errorf("mailer: invalid from address: %w", err)
	}
	if err := msg.To(o.User.Email); err != nil {
		return nil, fmt.Errorf("mailer: invalid recipient %q: %w", o.User.Email, err)
	}
	if d.cfg.BCC != "" {
		if err := msg.Bcc(d.cfg.BCC); err != nil {
			return nil, fmt.Errorf("mailer: invalid bcc address: %w", err)
		}
	}

	msg.Subject(invoiceSubject)
	msg.SetBodyString(mail.TypeTextPlain, invoiceBody)
	if err := msg.AttachReader(attachmentName(o.Invoice), bytes.NewReader(pdf),
		mail.WithFileContentType(mail.ContentType("application/pdf"))); err != nil {
		return nil, fmt.Errorf("mailer: failed to attach invoice: %w", err)
	}

	return msg, nil
}

func attachmentName(invoiceNo string) string {
	return "invoice_" + invoiceNo + ".pdf"
}
