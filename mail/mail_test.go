package mail

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime/quotedprintable"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/margdarshak/margdarshak/config"
)

// mockSmtpServer is a lightweight, in-process SMTP server for testing the
// mail package. It supports just enough of the protocol for mailyak to
// deliver a single message, which is captured for inspection.
//
// It intentionally does NOT advertise STARTTLS, forcing the client onto a
// plain connection, and it accepts AUTH PLAIN without validating
// credentials. Each test creates its own instance; the server handles
// exactly one connection.
type mockSmtpServer struct {
	listener net.Listener
	addr     string
	data     string // Captured email data
	err      chan error
}

// newMockSmtpServer creates and starts a new mock SMTP server.
// It listens on a random available local port.
func newMockSmtpServer(t *testing.T) (*mockSmtpServer, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen on a local port: %w", err)
	}

	server := &mockSmtpServer{
		listener: listener,
		addr:     listener.Addr().String(),
		err:      make(chan error, 1),
	}

	go server.serve(t)

	return server, nil
}

func (s *mockSmtpServer) serve(t *testing.T) {
	conn, err := s.listener.Accept()
	if err != nil {
		if !strings.Contains(err.Error(), "use of closed network connection") {
			s.err <- err
		}
		return
	}
	s.handleConnection(t, conn)
}

func (s *mockSmtpServer) handleConnection(t *testing.T, conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			t.Logf("error closing mock smtp server connection: %v", err)
		}
	}()

	reader := bufio.NewReader(conn)
	if _, err := fmt.Fprint(conn, "220 mock-server ESMTP\r\n"); err != nil {
		return
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		cmd := strings.ToUpper(strings.TrimSpace(line))

		switch {
		case strings.HasPrefix(cmd, "HELO"):
			if _, err := fmt.Fprint(conn, "250 mock-server\r\n"); err != nil {
				return
			}
		case strings.HasPrefix(cmd, "EHLO"):
			if _, err := fmt.Fprint(conn, "250-mock-server\r\n"); err != nil {
				return
			}
			if _, err := fmt.Fprint(conn, "250 AUTH PLAIN\r\n"); err != nil {
				return
			}
		case strings.HasPrefix(cmd, "AUTH PLAIN"):
			if _, err := fmt.Fprint(conn, "235 2.7.0 Authentication Succeeded\r\n"); err != nil {
				return
			}
		case strings.HasPrefix(cmd, "MAIL FROM:"), strings.HasPrefix(cmd, "RCPT TO:"):
			if _, err := fmt.Fprint(conn, "250 OK\r\n"); err != nil {
				return
			}
		case strings.HasPrefix(cmd, "DATA"):
			if _, err := fmt.Fprint(conn, "354 End data with <CR><LF>.<CR><LF>\r\n"); err != nil {
				return
			}
			for {
				bodyLine, err := reader.ReadString('\n')
				if err != nil {
					return
				}
				if bodyLine == ".\r\n" {
					break
				}
				s.data += bodyLine
			}
			if _, err := fmt.Fprint(conn, "250 OK: queued as 12345\r\n"); err != nil {
				return
			}
		case strings.HasPrefix(cmd, "QUIT"):
			if _, err := fmt.Fprint(conn, "221 Bye\r\n"); err != nil {
				return
			}
			return
		}
	}
}

// Close stops the listener and cleans up the server.
func (s *mockSmtpServer) Close() {
	_ = s.listener.Close()
}

func setupTest(t *testing.T) (*mockSmtpServer, *Mailer, *config.Config) {
	t.Helper()

	server, err := newMockSmtpServer(t)
	if err != nil {
		t.Fatalf("Failed to start mock SMTP server: %v", err)
	}

	host, portStr, err := net.SplitHostPort(server.addr)
	if err != nil {
		t.Fatalf("Failed to parse mock server address: %v", err)
	}

	var port int
	_, err = fmt.Sscanf(portStr, "%d", &port)
	if err != nil {
		t.Fatalf("Failed to parse port: %v", err)
	}

	cfg := config.NewDefaultConfig()
	cfg.Smtp.Host = host
	cfg.Smtp.Port = port
	cfg.Smtp.FromName = "Margdarshak"
	cfg.Smtp.FromAddress = "noreply@test.com"

	provider := config.NewProvider(cfg)

	mailer, err := New(provider)
	if err != nil {
		t.Fatalf("Failed to create mailer: %v", err)
	}

	return server, mailer, cfg
}

func TestSendOtpEmail(t *testing.T) {
	server, mailer, cfg := setupTest(t)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	email := "test@example.com"
	otp := "482913"
	err := mailer.SendOtpEmail(ctx, email, "Asha", otp)

	if err != nil {
		t.Fatalf("SendOtpEmail should not return an error, but got: %v", err)
	}

	select {
	case srvErr := <-server.err:
		t.Fatalf("Mock SMTP server encountered an error: %v", srvErr)
	default:
	}

	decodedData := decodeQuotedPrintable(t, server.data)
	assertContains(t, decodedData, fmt.Sprintf("To: %s", email))
	assertContains(t, decodedData, fmt.Sprintf("From: %s <%s>", cfg.Smtp.FromName, cfg.Smtp.FromAddress))
	assertContains(t, decodedData, fmt.Sprintf("Subject: Your %s verification code", cfg.Smtp.FromName))
	assertContains(t, decodedData, otp)
	assertContains(t, decodedData, "Hello Asha")
}

func TestSendOtpEmailWithoutName(t *testing.T) {
	server, mailer, _ := setupTest(t)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := mailer.SendOtpEmail(ctx, "anon@example.com", "", "123456")
	if err != nil {
		t.Fatalf("SendOtpEmail should not return an error, but got: %v", err)
	}

	decodedData := decodeQuotedPrintable(t, server.data)
	assertContains(t, decodedData, "Hello,")
}

func TestSendOtpEmailContextCancelled(t *testing.T) {
	server, mailer, _ := setupTest(t)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mailer.SendOtpEmail(ctx, "test@example.com", "", "123456")
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

// assertContains is a helper function to check if a string contains a substring.
func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("Expected string to contain '%s', but it did not. Full string: %s", substr, s)
	}
}

func decodeQuotedPrintable(t *testing.T, s string) string {
	t.Helper()
	reader := strings.NewReader(s)
	qpReader := quotedprintable.NewReader(reader)
	decodedBytes, err := io.ReadAll(qpReader)
	if err != nil {
		t.Fatalf("Failed to decode quoted-printable: %v", err)
	}
	return string(decodedBytes)
}
