// Package notify emails the run's artifacts through Amazon SES.
package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/gfarias-dados/pesquisa-preco/pkg/config"
	"github.com/gfarias-dados/pesquisa-preco/pkg/logger"
)

// Subject is the fixed subject line of the weekly report mail.
const Subject = "Pesquisa de preço do último fim de semana em arquivo CSV e EXCEL"

const bodyText = "Segue em anexo o resultado da pesquisa de preço do último fim de semana.\n"

// emailSender is the slice of the SES API the mailer needs.
type emailSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer sends the report mail with the artifacts attached.
type Mailer struct {
	client emailSender
	mail   config.MailConfig
	logger *logger.Logger
}

// NewMailer builds a Mailer backed by the SES v2 API using the configured
// static credentials and region.
func NewMailer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Mailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Mail.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Mail.AccessKey, cfg.Mail.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Mailer{
		client: sesv2.NewFromConfig(awsCfg),
		mail:   cfg.Mail,
		logger: log,
	}, nil
}

// Send mails the attachments to the configured recipients.
//
// Missing or partial credentials skip the send with a log entry instead of
// failing the run; the artifacts are already on disk at this point and the
// next run does not depend on this one. Returns true when a mail went out.
func (m *Mailer) Send(ctx context.Context, attachmentPaths []string) (bool, error) {
	if m.mail.Sender == "" || len(m.mail.Recipients) == 0 {
		m.logger.Warn("Mail sender or recipients not configured, skipping email")
		return false, nil
	}
	if m.mail.AccessKey == "" || m.mail.SecretKey == "" {
		m.logger.Warn("Mail credentials incomplete, skipping email")
		return false, nil
	}

	raw, err := buildRawMessage(m.mail.Sender, m.mail.Recipients, Subject, bodyText, attachmentPaths)
	if err != nil {
		return false, fmt.Errorf("build mail: %w", err)
	}

	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.mail.Sender),
		Destination: &types.Destination{
			ToAddresses: m.mail.Recipients,
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return false, fmt.Errorf("send mail: %w", err)
	}

	m.logger.WithFields(map[string]interface{}{
		"message_id":  aws.ToString(out.MessageId),
		"recipients":  len(m.mail.Recipients),
		"attachments": len(attachmentPaths),
	}).Info("Report email sent")

	return true, nil
}

// buildRawMessage assembles the multipart MIME message with each file
// attached as base64.
func buildRawMessage(sender string, recipients []string, subject, body string, attachmentPaths []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", sender)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", writer.Boundary())
	fmt.Fprintf(&buf, "\r\n")

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=UTF-8")
	part, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("create text part: %w", err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("write text part: %w", err)
	}

	for _, path := range attachmentPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", path, err)
		}

		name := filepath.Base(path)
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", "application/octet-stream")
		header.Set("Content-Transfer-Encoding", "base64")
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("create attachment part: %w", err)
		}
		if err := writeBase64(part, data); err != nil {
			return nil, fmt.Errorf("encode attachment %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close message: %w", err)
	}

	return buf.Bytes(), nil
}

// writeBase64 encodes data in 76-character lines as RFC 2045 requires.
func writeBase64(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := 76
		if len(encoded) < n {
			n = len(encoded)
		}
		if _, err := w.Write([]byte(encoded[:n] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}
