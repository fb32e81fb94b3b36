package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/JoshiWorld/rechnungssteller-api/internal/config"
	"github.com/JoshiWorld/rechnungssteller-api/internal/order"
	"github.com/JoshiWorld/rechnungssteller-api/internal/user"
)

type stubRenderer struct {
	pdf []byte
	err error
}

func (s *stubRenderer) Render(_ *order.Detail) ([]byte, error) {
	return s.pdf, s.err
}

func testSMTPConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     465,
		From:     "invoice@shop.example.com",
		FromName: "Brokoly Invoice",
		BCC:      "invoices@shop.brokoly.de",
	}
}

func testOrder() *order.Detail {
	return &order.Detail{
		ID:      1,
		Title:   "Order1",
		Invoice: "4815162025",
		User:    user.User{Email: "buyer@example.com", Forename: "Max", Surname: "Muster"},
	}
}

func TestDispatcher_SendInvoice(t *testing.T) {
	var sent *mail.Msg
	d := &Dispatcher{
		cfg:      testSMTPConfig(),
		renderer: &stubRenderer{pdf: []byte("%PDF-1.4 fake")},
		send: func(_ context.Context, msg *mail.Msg) error {
			sent = msg
			return nil
		},
	}

	err := d.SendInvoice(context.Background(), testOrder())
	require.NoError(t, err)
	require.NotNil(t, sent)

	to, err := sent.GetRecipients()
	require.NoError(t, err)
	assert.Contains(t, to, "buyer@example.com")
	assert.Contains(t, to, "invoices@shop.brokoly.de")

	attachments := sent.GetAttachments()
	require.Len(t, attachments, 1)
	assert.Equal(t, "invoice_4815162025.pdf", attachments[0].Name)
}

func TestDispatcher_SendInvoice_RenderFailure(t *testing.T) {
	renderErr := errors.New("too many line items")
	d := &Dispatcher{
		cfg:      testSMTPConfig(),
		renderer: &stubRenderer{err: renderErr},
		send: func(_ context.Context, _ *mail.Msg) error {
			t.Fatal("send must not be called when rendering fails")
			return nil
		},
	}

	err := d.SendInvoice(context.Background(), testOrder())
	require.Error(t, err)
	assert.ErrorIs(t, err, renderErr)
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestDispatcher_SendInvoice_TransportFailure(t *testing.T) {
	d := &Dispatcher{
		cfg:      testSMTPConfig(),
		renderer: &stubRenderer{pdf: []byte("%PDF-1.4 fake")},
		send: func(_ context.Context, _ *mail.Msg) error {
			return errors.New("connection refused")
		},
	}

	err := d.SendInvoice(context.Background(), testOrder())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDispatcher_SendInvoice_InvalidRecipient(t *testing.T) {
	o := testOrder()
	o.User.Email = "not-an-address"

	d := &Dispatcher{
		cfg:      testSMTPConfig(),
		renderer: &stubRenderer{pdf: []byte("%PDF-1.4 fake")},
		send: func(_ context.Context, _ *mail.Msg) error {
			t.Fatal("send must not be called for an invalid recipient")
			return nil
		},
	}

	err := d.SendInvoice(context.Background(), o)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "invoice_1234.pdf", attachmentName("1234"))
}
