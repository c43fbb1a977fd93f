package bootstrap

import (
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	appconfig "github.com/webplotcentersj-hash/clinicasj/internal/config"
	"github.com/webplotcentersj-hash/clinicasj/internal/intake"
	"github.com/webplotcentersj-hash/clinicasj/internal/notify"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

// BuildEmailSender picks the sender named by EMAIL_PROVIDER. It returns the
// sender and the provider actually in use; misconfigured providers degrade to
// the logging sender.
func BuildEmailSender(cfg *appconfig.Config, sesClient *sesv2.Client, logger *logging.Logger) (notify.EmailSender, string) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		return notify.NewLogSender(logger), "log"
	}

	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender, "sendgrid"
		}
		logger.Warn("EMAIL_PROVIDER=sendgrid but SENDGRID_API_KEY is empty; logging emails instead")
	case "ses":
		if sender := notify.NewSESSender(sesClient, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			return sender, "ses"
		}
		logger.Warn("EMAIL_PROVIDER=ses but no SES client is available; logging emails instead")
	}
	return notify.NewLogSender(logger), "log"
}

// BuildForwarders returns the intake forwarders enabled by config.
func BuildForwarders(cfg *appconfig.Config, sender notify.EmailSender, sqsClient *sqs.Client) []intake.Forwarder {
	if cfg == nil {
		return nil
	}
	var out []intake.Forwarder
	if f := intake.NewEmailForwarder(sender, cfg.IntakeNotifyEmail, cfg.ClinicName); f != nil {
		out = append(out, f)
	}
	if f := intake.NewQueueForwarder(sqsClient, cfg.IntakeQueueURL); f != nil {
		out = append(out, f)
	}
	return out
}
