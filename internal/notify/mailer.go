package notify

import (
	"net"
	"net/smtp"
	"time"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers plain-text mail over SMTP without auth, which is
// enough for MailHog and relay setups.
type SMTPMailer struct {
	host    string
	port    string
	from    string
	timeout time.Duration
}

func NewSMTPMailer(host, port, from string, timeout time.Duration) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, timeout: timeout}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := net.JoinHostPort(m.host, m.port)

	conn, err := net.DialTimeout("tcp", addr, m.timeout)
	if err != nil {
		return err
	}
	if err := conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		conn.Close()
		return err
	}
	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	wc, err := client.Data()
	if err != nil {
		return err
	}

	msg := "From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body
	if _, err := wc.Write([]byte(msg)); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return client.Quit()
}
