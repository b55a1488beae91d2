// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"
	"net/smtp"

	"github.com/example/storefront-api/internal/events"
)

// Service handles email sending via SMTP.
type Service struct {
	host string
	port string
	from string
}

func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendOrderConfirmation mails the buyer after a direct checkout.
func (s *Service) SendOrderConfirmation(evt events.OrderPlaced) error {
	subject := fmt.Sprintf("Order confirmation %s", evt.OrderNumber)
	body := BuildOrderBody("Thanks for your order!", evt.OrderNumber, evt.Total, evt.Lines)
	return s.send(evt.Email, subject, body)
}

// SendPaymentConfirmation mails the buyer after a gateway payment
// settled.
func (s *Service) SendPaymentConfirmation(evt events.OrderSettled) error {
	subject := fmt.Sprintf("Payment received for order %s", evt.OrderNumber)
	body := BuildOrderBody("Your payment was received!", evt.OrderNumber, evt.Total, evt.Lines)
	return s.send(evt.Email, subject, body)
}

// SendSettlementAlert mails the operations inbox when a captured
// payment could not be settled.
func (s *Service) SendSettlementAlert(opsAddress string, evt events.SettlementFailed) error {
	subject := fmt.Sprintf("Settlement failed for payment %s", evt.GatewayPaymentID)
	body := BuildSettlementAlertBody(evt)
	return s.send(opsAddress, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient address")
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
