package mail

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Mail subjects match the wording end users already know from the helpdesk.
const (
	subjectCreated  = "Confirmación de soporte solicitado - MiAyudaTic"
	subjectAssigned = "Nueva asignación de ticket - MiAyudaTic"
	subjectClosed   = "Cierre de caso - MiAyudaTic"
)

type createdData struct {
	TicketID    string
	ReportedAt  string
	Description string
}

type assignedData struct {
	TicketID       string
	ReportedAt     string
	DaysOpen       int
	AssigneeName   string
	RequesterName  string
	RequesterEmail string
	RequesterPhone string
	Department     string
	ServiceType    string
	Description    string
}

type closedData struct {
	TicketID      string
	RequesterName string
	ReportedAt    string
	Description   string
	Solution      string
}

var createdTemplate = template.Must(template.New("created").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #2c3e50; text-align: center;">¡Tu solicitud de soporte ha sido registrada!</h2>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 10px; font-weight: bold; width: 40%;">Ticket de soporte N°:</td><td style="padding: 10px;">{{.TicketID}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Fecha del reporte:</td><td style="padding: 10px;">{{.ReportedAt}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold; vertical-align: top;">Descripción:</td><td style="padding: 10px;">{{.Description}}</td></tr>
  </table>
  <p style="color: #2c3e50;">Gracias por contactarnos. Nuestro equipo de soporte pronto se comunicará con usted para la atención de su requerimiento.</p>
  <p style="color: #2c3e50; font-weight: bold; text-align: center;">MiAyudaTic</p>
</div>`))

var assignedTemplate = template.Must(template.New("assigned").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #2c3e50; text-align: center;">Nueva asignación de ticket</h2>
  <p style="color: #155724;">Estimado/a {{.AssigneeName}}, se le ha asignado un nuevo ticket de soporte técnico.</p>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 10px; font-weight: bold; width: 40%;">Ticket N°:</td><td style="padding: 10px;">{{.TicketID}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Fecha del reporte:</td><td style="padding: 10px;">{{.ReportedAt}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Días abierta:</td><td style="padding: 10px;">{{.DaysOpen}} día(s)</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Solicitante:</td><td style="padding: 10px;">{{.RequesterName}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Correo del solicitante:</td><td style="padding: 10px;">{{.RequesterEmail}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Contacto:</td><td style="padding: 10px;">{{.RequesterPhone}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Dependencia:</td><td style="padding: 10px;">{{.Department}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Tipo de servicio:</td><td style="padding: 10px;">{{.ServiceType}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold; vertical-align: top;">Descripción:</td><td style="padding: 10px;">{{.Description}}</td></tr>
  </table>
  <p style="color: #856404;">Por favor, proceda a atender esta solicitud de soporte técnico lo antes posible.</p>
  <p style="color: #6c757d; font-size: 12px; text-align: center;">Este es un correo automático, por favor no responda a este mensaje.</p>
</div>`))

var closedTemplate = template.Must(template.New("closed").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #2c3e50; text-align: center;">Ticket N° {{.TicketID}} ha sido cerrado</h2>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 10px; font-weight: bold; width: 40%;">Solicitante:</td><td style="padding: 10px;">{{.RequesterName}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold;">Fecha de reporte:</td><td style="padding: 10px;">{{.ReportedAt}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold; vertical-align: top;">Descripción de la solicitud:</td><td style="padding: 10px;">{{.Description}}</td></tr>
    <tr><td style="padding: 10px; font-weight: bold; vertical-align: top;">Solución registrada:</td><td style="padding: 10px;">{{.Solution}}</td></tr>
  </table>
  <p style="color: #2c3e50;">Gracias por usar MiAyudaTic.</p>
</div>`))

func renderTemplate(tpl *template.Template, data any) (string, error) {
	var builder strings.Builder
	if err := tpl.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("render %s mail: %w", tpl.Name(), err)
	}
	return builder.String(), nil
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
