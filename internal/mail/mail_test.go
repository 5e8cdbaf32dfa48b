package mail

import (
	"context"
	"html/template"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/gal-ch/green-market/internal/service/models/report"
)

func newTestMailer(t *testing.T) *Mailer {
	t.Helper()

	tmpl, err := template.ParseFS(templates, "templates/store_report.html")
	require.NoError(t, err)

	return &Mailer{template: tmpl}
}

func TestRenderBody(t *testing.T) {
	m := newTestMailer(t)

	rep := &report.Report{
		StartAt: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2024, 3, 11, 18, 0, 0, 0, time.UTC),
		Lines: []report.Line{
			{Product: "Apples", Quantity: 3, PriceCents: 500},
		},
	}

	body, err := m.renderBody("Neve Tzedek", rep)
	require.NoError(t, err)

	assert.Contains(t, body, "Neve Tzedek")
	assert.Contains(t, body, "10/03/2024")
	assert.Contains(t, body, "11/03/2024")
	assert.Contains(t, body, "<td>Apples</td>")
	assert.Contains(t, body, "<td>5.00</td>")
}

// stalledSMTPListener accepts connections but never sends the greeting, so
// DialAndSend blocks until the dialer side gives up.
func stalledSMTPListener(t *testing.T) (host string, port int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err = strconv.Atoi(portStr)
	require.NoError(t, err)

	return host, port
}

func TestSendStoreReportHonorsContextDeadline(t *testing.T) {
	host, port := stalledSMTPListener(t)

	tmpl, err := template.ParseFS(templates, "templates/store_report.html")
	require.NoError(t, err)

	m := &Mailer{
		dialer:   gomail.NewDialer(host, port, "", ""),
		from:     "reports@market.test",
		template: tmpl,
	}

	rep := &report.Report{
		Lines: []report.Line{{Product: "Apples", Quantity: 3, PriceCents: 500}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = m.SendStoreReport(ctx, "manager@market.test", "Florentin", rep, []byte("xlsx"))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRenderBodyEscapesProductNames(t *testing.T) {
	m := newTestMailer(t)

	rep := &report.Report{
		Lines: []report.Line{
			{Product: "<script>alert(1)</script>", Quantity: 1, PriceCents: 100},
		},
	}

	body, err := m.renderBody("Store", rep)
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
