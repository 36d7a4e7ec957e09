package service

import (
	"fmt"
	"net/smtp"
)

type EmailService struct {
	from          string
	password      string
	host          string
	port          string
	testEmailOnly string // If set, all emails go to this address (for testing)
}

// NewEmailService creates a new email service using SMTP
func NewEmailService(smtpHost, smtpPort, username, password, fromEmail, testEmailOnly string) (*EmailService, error) {
	if smtpHost == "" || username == "" || password == "" {
		return nil, fmt.Errorf("SMTP configuration incomplete")
	}

	return &EmailService{
		from:          fromEmail,
		password:      password,
		host:          smtpHost,
		port:          smtpPort,
		testEmailOnly: testEmailOnly,
	}, nil
}

// SendBookingStatusEmail tells a renter their booking was confirmed,
// cancelled, or moved back to pending.
func (s *EmailService) SendBookingStatusEmail(n StatusNotification) error {
	// Override recipient for testing if TEST_EMAIL_ONLY is set
	actualRecipient := n.ToEmail
	if s.testEmailOnly != "" {
		actualRecipient = s.testEmailOnly
	}

	var headline string
	switch n.Status {
	case "confirmed":
		headline = "Your booking is confirmed!"
	case "cancelled":
		headline = "Your booking has been cancelled."
	default:
		headline = "Your booking is being processed."
	}

	subject := fmt.Sprintf("Booking %s - %s", n.Status, n.CarName)
	body := fmt.Sprintf(`Hello,

%s

Vehicle: %s
Pickup date: %s
Return date: %s
Total price: $%.2f

`, headline, n.CarName, n.PickupDate, n.ReturnDate, n.Price)

	// Add note if email is being sent to test address
	if s.testEmailOnly != "" && n.ToEmail != actualRecipient {
		body += fmt.Sprintf("[TEST MODE] Original recipient: %s\n\n", n.ToEmail)
	}

	body += `Thank you for choosing our car rental service.

Best regards,
The Rental Team
`

	message := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s", s.from, actualRecipient, subject, body)

	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	addr := s.host + ":" + s.port

	err := smtp.SendMail(addr, auth, s.from, []string{actualRecipient}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", actualRecipient, err)
	}

	return nil
}
