package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"

	"github.com/gal-ch/green-market/internal/service/models/report"
)

//go:embed templates/*.html
var templates embed.FS

const attachmentName = "report.xlsx"

// Mailer delivers store reports to store managers over SMTP.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	template *template.Template
}

// MustNewMailer creates a new Mailer from smtp.* configuration and SMTP
// credentials in the environment.
func MustNewMailer() *Mailer {
	tmpl, err := template.ParseFS(templates, "templates/store_report.html")
	if err != nil {
		panic("error while parsing mail templates: " + err.Error())
	}

	dialer := gomail.NewDialer(
		viper.GetString("smtp.host"),
		viper.GetInt("smtp.port"),
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASSWORD"),
	)

	return &Mailer{
		dialer:   dialer,
		from:     viper.GetString("mail.from"),
		template: tmpl,
	}
}

type storeReportContext struct {
	StoreName string
	StartDate string
	EndDate   string
	Lines     []storeReportLine
}

type storeReportLine struct {
	Product string
	Amount  int
	Price   string
}

// SendStoreReport emails the aggregated report for one store to its manager,
// with the xlsx artifact attached. The SMTP session runs in its own goroutine
// so a stalled server cannot hold the caller past the context deadline.
func (m *Mailer) SendStoreReport(
	ctx context.Context,
	to string,
	storeName string,
	rep *report.Report,
	attachment []byte,
) error {
	body, err := m.renderBody(storeName, rep)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("%s Product Summary", storeName))
	msg.SetBody("text/html", body)
	msg.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(attachment)

		return err
	}))

	sendErr := make(chan error, 1)
	go func() {
		sendErr <- m.dialer.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("failed to send store report to %s: %w", to, ctx.Err())
	case err := <-sendErr:
		if err != nil {
			return fmt.Errorf("failed to send store report to %s: %w", to, err)
		}
	}

	return nil
}

func (m *Mailer) renderBody(storeName string, rep *report.Report) (string, error) {
	tctx := storeReportContext{
		StoreName: storeName,
		StartDate: rep.StartAt.Format("02/01/2006"),
		EndDate:   rep.EndAt.Format("02/01/2006"),
	}
	for _, line := range rep.Lines {
		tctx.Lines = append(tctx.Lines, storeReportLine{
			Product: line.Product,
			Amount:  line.Quantity,
			Price:   fmt.Sprintf("%.2f", float64(line.PriceCents)/100),
		})
	}

	var buf bytes.Buffer
	if err := m.template.Execute(&buf, tctx); err != nil {
		return "", fmt.Errorf("failed to render store report body: %w", err)
	}

	return buf.String(), nil
}
