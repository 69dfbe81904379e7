package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"retrouvaille/internal/config"
)

type Service interface {
	SendClaimSubmittedEmail(ctx context.Context, toEmail, ownerName, declarationTitle string) error
	SendClaimDecisionEmail(ctx context.Context, toEmail, recipientName, declarationTitle, outcome string) error
	SendMatchAlertEmail(ctx context.Context, toEmail, ownerName, declarationTitle, candidateTitle string) error
}

type service struct {
	client *resend.Client
	cfg    *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		cfg:    cfg,
	}
}

var bodyTmpl = template.Must(template.New("body").Parse(`
<div style="font-family:sans-serif;max-width:560px;margin:0 auto">
	<h2>{{.Heading}}</h2>
	<p>Bonjour {{.Name}},</p>
	<p>{{.Body}}</p>
	<p><a href="{{.Link}}">Voir sur Retrouvaille</a></p>
</div>`))

type bodyData struct {
	Heading string
	Name    string
	Body    string
	Link    string
}

func (s *service) sendEmail(toEmail, subject string, data bodyData) error {
	var body bytes.Buffer
	if err := bodyTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Retrouvaille <%s>", s.cfg.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *service) SendClaimSubmittedEmail(ctx context.Context, toEmail, ownerName, declarationTitle string) error {
	return s.sendEmail(toEmail, "Nouvelle réclamation sur votre déclaration", bodyData{
		Heading: "Nouvelle réclamation",
		Name:    ownerName,
		Body:    fmt.Sprintf("Quelqu'un affirme être le propriétaire de « %s ». La réclamation est en attente de vérification.", declarationTitle),
		Link:    fmt.Sprintf("https://%s/declarations", s.cfg.Domain),
	})
}

func (s *service) SendClaimDecisionEmail(ctx context.Context, toEmail, recipientName, declarationTitle, outcome string) error {
	return s.sendEmail(toEmail, "Décision sur une réclamation", bodyData{
		Heading: "Réclamation " + outcome,
		Name:    recipientName,
		Body:    fmt.Sprintf("La réclamation concernant « %s » a été %s.", declarationTitle, outcome),
		Link:    fmt.Sprintf("https://%s/declarations", s.cfg.Domain),
	})
}

func (s *service) SendMatchAlertEmail(ctx context.Context, toEmail, ownerName, declarationTitle, candidateTitle string) error {
	return s.sendEmail(toEmail, "Correspondance possible trouvée", bodyData{
		Heading: "Correspondance possible",
		Name:    ownerName,
		Body:    fmt.Sprintf("« %s » pourrait correspondre à votre déclaration « %s ».", candidateTitle, declarationTitle),
		Link:    fmt.Sprintf("https://%s/matches", s.cfg.Domain),
	})
}
