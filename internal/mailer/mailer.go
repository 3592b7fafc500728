// Package mailer sends transactional mail over plain SMTP with LOGIN auth.
// Some internal relays reject TLS-gated AUTH, so the auth exchange is
// implemented by hand instead of using smtp.PlainAuth.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

type loginAuth struct {
	username, password string
}

func LoginAuth(username, password string) smtp.Auth {
	return &loginAuth{username, password}
}

func (a *loginAuth) Start(_ *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}

	command := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(string(fromServer)), ":"))

	switch command {
	case "username":
		return []byte(a.username), nil
	case "password":
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("unexpected server challenge: %s", command)
	}
}

type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func New(host, port, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Enabled reports whether SMTP is configured. Callers fall back to logging
// when it is not.
func (m *Mailer) Enabled() bool {
	return m != nil && m.host != ""
}

func (m *Mailer) Send(receiver, subject, body string) error {
	addr := m.host + ":" + m.port

	msg := []byte("To: " + receiver + "\r\n" +
		"From: " + m.from + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body)

	var auth smtp.Auth

	if m.user != "" {
		auth = LoginAuth(m.user, m.pass)
	}

	return smtp.SendMail(addr, auth, m.from, []string{receiver}, msg)
}
