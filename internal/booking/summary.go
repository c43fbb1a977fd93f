package booking

import (
	"fmt"
	"html"
	"strings"
)

// Clinic carries the institution facts quoted back to patients.
type Clinic struct {
	Name  string
	Phone string
}

func (c Clinic) name() string {
	if strings.TrimSpace(c.Name) == "" {
		return "el sanatorio"
	}
	return c.Name
}

func (c Clinic) phone() string {
	if strings.TrimSpace(c.Phone) == "" {
		return "0800-SANJUAN (7265)"
	}
	return c.Phone
}

// Confirmation is shown to the patient once the intake endpoint acknowledged the request.
func Confirmation(r Request, clinic Clinic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ ¡Listo, %s! Registramos tu solicitud de turno en %s.\n\n", r.FirstName, clinic.name())
	b.WriteString(FormatSummary(r))
	fmt.Fprintf(&b, "\nNuestro equipo se va a comunicar con vos para confirmar el día y horario. "+
		"Si necesitás hacer algún cambio, llamanos al %s.", clinic.phone())
	return b.String()
}

// ReceiptWithFallback is shown when the intake call failed: the patient is told
// the request was received and is pointed at the phone line to make sure.
func ReceiptWithFallback(r Request, clinic Clinic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Gracias, %s! Recibimos tu solicitud de turno.\n\n", r.FirstName)
	b.WriteString(FormatSummary(r))
	fmt.Fprintf(&b, "\nPara asegurarnos de que quede registrada, te recomendamos confirmarla "+
		"llamando al %s.", clinic.phone())
	return b.String()
}

// FormatSummary renders the submitted fields as a bullet list.
func FormatSummary(r Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "• Paciente: %s\n", r.FullName())
	fmt.Fprintf(&b, "• DNI: %s\n", valueOr(r.NationalID, "no informado"))
	fmt.Fprintf(&b, "• Teléfono: %s\n", r.Phone)
	if r.Email != "" {
		fmt.Fprintf(&b, "• Email: %s\n", r.Email)
	}
	fmt.Fprintf(&b, "• Especialidad: %s\n", r.Specialty)
	fmt.Fprintf(&b, "• Fecha preferida: %s\n", r.PreferredDate)
	fmt.Fprintf(&b, "• Franja horaria: %s\n", r.TimeOfDay.Label())
	if r.Comment != "" {
		fmt.Fprintf(&b, "• Comentario: %s\n", r.Comment)
	}
	return b.String()
}

// FormatSummaryHTML renders the request for staff notification emails.
func FormatSummaryHTML(r Request) string {
	row := func(label, value string) string {
		return fmt.Sprintf(`<tr><td style="padding:6px 12px;font-weight:bold;">%s</td><td style="padding:6px 12px;">%s</td></tr>`,
			label, html.EscapeString(value))
	}
	rows := []string{
		row("Paciente", r.FullName()),
		row("DNI", valueOr(r.NationalID, "no informado")),
		fmt.Sprintf(`<tr><td style="padding:6px 12px;font-weight:bold;">Teléfono</td><td style="padding:6px 12px;"><a href="tel:%s">%s</a></td></tr>`,
			html.EscapeString(r.Phone), html.EscapeString(r.Phone)),
	}
	if r.Email != "" {
		rows = append(rows, row("Email", r.Email))
	}
	rows = append(rows,
		row("Especialidad", r.Specialty),
		row("Fecha preferida", r.PreferredDate),
		row("Franja", r.TimeOfDay.Label()),
	)
	if r.Comment != "" {
		rows = append(rows, row("Comentario", r.Comment))
	}

	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:600px;">
<h2 style="color:#447FC1;">Nueva solicitud de turno</h2>
<table style="border-collapse:collapse;width:100%%;">
%s
</table>
<p style="color:#666;font-size:12px;">Solicitud recibida por el asistente virtual. Contactar al paciente para confirmar el turno.</p>
</div>`, strings.Join(rows, "\n"))
}

var fieldLabels = map[string]string{
	FieldFirstName:     "tu nombre",
	FieldLastName:      "tu apellido",
	FieldNationalID:    "tu DNI (entre 6 y 12 caracteres)",
	FieldPhone:         "un teléfono de contacto",
	FieldEmail:         "un email válido",
	FieldSpecialty:     "la especialidad",
	FieldPreferredDate: "la fecha preferida",
	FieldTimeOfDay:     "la franja horaria (mañana, tarde o indistinto)",
	FieldComment:       "un comentario más breve (hasta 500 caracteres)",
}

// MissingFieldsPrompt asks the patient, in one sentence, for every field that
// failed validation.
func MissingFieldsPrompt(issues Issues) string {
	labels := make([]string, 0, len(issues))
	for _, field := range issues.Fields() {
		label, ok := fieldLabels[field]
		if !ok {
			label = "los datos del turno"
		}
		labels = append(labels, label)
	}
	if len(labels) == 0 {
		labels = append(labels, "los datos del turno")
	}
	return fmt.Sprintf("Para completar tu solicitud necesito que me indiques %s. ¿Me los podés confirmar?", joinSpanish(labels))
}

// joinSpanish joins items as "a, b y c".
func joinSpanish(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " y " + items[len(items)-1]
	}
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
