package utils

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

//
// ===========================================================
//  TYPES
// ===========================================================
//

// BookingEmail is what the guest is told after a booking is recorded.
type BookingEmail struct {
	To          string
	GuestName   string
	RoomNumbers []string
	CheckIn     time.Time
	CheckOut    time.Time
	Nights      int
	Total       float64
	Currency    string
	Method      string
	Reference   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends guest emails over SMTP. With no host configured it only logs
// the message, which is what local development runs with.
type Mailer struct {
	cfg SMTPConfig
	log logrus.FieldLogger
}

func NewMailer(cfg SMTPConfig, log logrus.FieldLogger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

//
// ===========================================================
//  BOOKING RECEIVED
// ===========================================================
//

func (m *Mailer) SendBookingReceived(ctx context.Context, e BookingEmail) error {
	if m.cfg.Host == "" {
		m.log.WithFields(logrus.Fields{
			"to":    MaskEmail(e.To),
			"rooms": strings.Join(e.RoomNumbers, ","),
			"total": fmt.Sprintf("%s %.2f", e.Currency, e.Total),
		}).Info("[MOCK EMAIL] booking received")
		return nil
	}

	msg, err := BuildBookingReceivedMessage(m.cfg.From, e)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send booking email to %s: %w", MaskEmail(e.To), err)
	}

	m.log.Infof("booking email sent to %s", MaskEmail(e.To))
	return nil
}

func BuildBookingReceivedMessage(from string, e BookingEmail) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(e.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("Booking received: %s to %s",
		e.CheckIn.Format(time.DateOnly), e.CheckOut.Format(time.DateOnly)))
	msg.SetBodyString(mail.TypeTextPlain, bookingText(e))
	msg.AddAlternativeString(mail.TypeTextHTML, bookingHTML(e))
	return msg, nil
}

func paymentLine(e BookingEmail) string {
	if e.Method == "bank_transfer" {
		return fmt.Sprintf("Bank transfer, reference %s. We will confirm once the transfer is verified.", e.Reference)
	}
	return "Online payment. Complete the payment from the link on the booking page."
}

func bookingText(e BookingEmail) string {
	return fmt.Sprintf(
		"Dear %s,\n\n"+
			"We have received your booking.\n\n"+
			"Rooms: %s\n"+
			"Check-In: %s\n"+
			"Check-Out: %s (%d nights)\n"+
			"Total: %s %.2f (incl. 15%% tax)\n"+
			"Payment: %s\n\n"+
			"Best regards,\nReservations",
		e.GuestName,
		strings.Join(e.RoomNumbers, ", "),
		e.CheckIn.Format(time.DateOnly),
		e.CheckOut.Format(time.DateOnly),
		e.Nights,
		e.Currency,
		e.Total,
		paymentLine(e),
	)
}

func bookingHTML(e BookingEmail) string {
	var rooms strings.Builder
	for _, n := range e.RoomNumbers {
		rooms.WriteString("<li>Room " + html.EscapeString(n) + "</li>")
	}
	return fmt.Sprintf(`<!doctype html>
<html>
<body style="font-family:Arial, Helvetica, sans-serif; color:#222;">
  <h2>Booking received</h2>
  <p>Dear %s,</p>
  <ul>%s</ul>
  <p><b>Check-In:</b> %s<br><b>Check-Out:</b> %s (%d nights)</p>
  <p><b>Total:</b> %s %.2f (incl. 15%% tax)</p>
  <p>%s</p>
  <p>Best regards,<br>Reservations</p>
</body>
</html>`,
		html.EscapeString(e.GuestName),
		rooms.String(),
		e.CheckIn.Format(time.DateOnly),
		e.CheckOut.Format(time.DateOnly),
		e.Nights,
		html.EscapeString(e.Currency),
		e.Total,
		html.EscapeString(paymentLine(e)),
	)
}

//
// ===========================================================
//  HELPERS
// ===========================================================
//

// MaskEmail keeps the first character of the local part, e.g. j***@mail.com.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
