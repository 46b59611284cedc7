package repo

import (
	"RegistrationBot/model"
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"
)

const (
	defaultFromName = "Saylani Registration"
	mailSubject     = "🎓 SMIT Registration Successful"

	// Static card content shared by every registrant.
	CardCode    = "GD-83236"
	CardBatch   = "GD BATCH (8)"
	CardQRImage = "https://api.qrserver.com/v1/create-qr-code/?data=" + CardCode + "&size=90x90"
	cardLogo    = "https://i.ibb.co/WvbtMCB/smit-logo.png"
	cardAvatar  = "https://i.ibb.co/Ky5XnXG/avatar-boy.jpg"
)

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

// Mailer sends the registration ID card to a registrant over SMTP.
type Mailer struct {
	cfg  MailConfig
	card *template.Template
}

func NewMailer(cfg MailConfig) (*Mailer, error) {
	if cfg.FromName == "" {
		cfg.FromName = defaultFromName
	}
	card, err := template.New("card").Parse(cardTemplate)
	if err != nil {
		return nil, fmt.Errorf("error parsing card template: %w", err)
	}
	return &Mailer{cfg: cfg, card: card}, nil
}

type cardData struct {
	Name       string
	NationalID string
	Course     string
	Code       string
	Batch      string
	QRImage    string
	Logo       string
	Avatar     string
}

// Render returns the HTML body for record.
func (m *Mailer) Render(record model.RegistrationRecord) (string, error) {
	var buf bytes.Buffer
	err := m.card.Execute(&buf, cardData{
		Name:       record.Name,
		NationalID: record.NationalID,
		Course:     record.Course,
		Code:       CardCode,
		Batch:      CardBatch,
		QRImage:    CardQRImage,
		Logo:       cardLogo,
		Avatar:     cardAvatar,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Send delivers the card to record.Email. Every failure wraps model.ErrDelivery.
func (m *Mailer) Send(ctx context.Context, record model.RegistrationRecord) error {
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return fmt.Errorf("%w: mail account not configured", model.ErrDelivery)
	}

	body, err := m.Render(record)
	if err != nil {
		return fmt.Errorf("%w: rendering card: %v", model.ErrDelivery, err)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.Username); err != nil {
		return fmt.Errorf("%w: sender address: %v", model.ErrDelivery, err)
	}
	if err := msg.To(record.Email); err != nil {
		return fmt.Errorf("%w: recipient address: %v", model.ErrDelivery, err)
	}
	msg.Subject(mailSubject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("%w: smtp client: %v", model.ErrDelivery, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDelivery, err)
	}
	return nil
}

const cardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>SMIT ID Card</title>
</head>
<body style="margin: 0; padding: 0; background-color: #f4f4f4; font-family: Arial, sans-serif;">
  <div style="display: flex; justify-content: center; align-items: flex-start; gap: 40px; padding: 50px;">
    <div style="width: 280px; border-radius: 12px; background: white; box-shadow: 0 4px 10px rgba(0,0,0,0.15); overflow: hidden; border-top: 6px solid #0e76a8;">
      <div style="text-align: center; padding: 20px 15px 10px;">
        <img src="{{.Logo}}" alt="SMIT Logo" style="height: 40px;">
        <div style="font-size: 12px; font-weight: bold; background-color: #0E76A8; color: white; padding: 3px 10px; margin-top: 6px; display: inline-block; border-radius: 3px;">
          SAYLANI MASS IT TRAINING PROGRAM
        </div>
      </div>
      <div style="text-align: center; padding: 10px 15px;">
        <img src="{{.Avatar}}" alt="Profile" style="width: 80px; height: 90px; border: 2px solid #ddd; border-radius: 6px; object-fit: cover;">
        <h3 style="margin: 10px 0 5px; font-size: 18px; color: #333;">{{.Name}}</h3>
        <p style="margin: 0; font-size: 13px; color: #777;">{{.Course}}</p>
        <p style="margin: 6px 0; font-size: 14px; font-weight: bold; color: #0E76A8;">{{.Code}}</p>
      </div>
    </div>

    <div style="width: 280px; border-radius: 12px; background: white; box-shadow: 0 4px 10px rgba(0,0,0,0.15); overflow: hidden; border-top: 6px solid #0e76a8;">
      <div style="padding: 20px 20px;">
        <p style="margin: 8px 0;"><strong>Name:</strong> {{.Name}}</p>
        <p style="margin: 8px 0;"><strong>CNIC:</strong> {{.NationalID}}</p>
        <p style="margin: 8px 0;"><strong>Course:</strong> {{.Batch}}</p>
        <div style="text-align: center; margin: 15px 0;">
          <img src="{{.QRImage}}" alt="QR Code">
        </div>
        <p style="font-size: 12px; color: #555; text-align: justify;">
          <strong>Note:</strong> This card is for SMIT’s premises only. If found, please return to SMIT.
        </p>
        <p style="text-align: center; margin-top: 30px; font-style: italic;">
          Issuing authority
        </p>
      </div>
    </div>
  </div>
</body>
</html>
`
