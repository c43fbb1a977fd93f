// Package booking defines the appointment request record, the schema gate every
// request must pass before submission, and the client that delivers validated
// requests to the intake endpoint.
package booking

import "strings"

// TimeOfDay is the preferred appointment window.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEither    TimeOfDay = "either"
)

// Label returns the patient-facing name of the window.
func (t TimeOfDay) Label() string {
	switch t {
	case TimeOfDayMorning:
		return "mañana"
	case TimeOfDayAfternoon:
		return "tarde"
	case TimeOfDayEither:
		return "indistinto"
	default:
		return string(t)
	}
}

// Wire field names of the intake contract.
const (
	FieldFirstName     = "nombre"
	FieldLastName      = "apellido"
	FieldNationalID    = "dni"
	FieldPhone         = "telefono"
	FieldEmail         = "email"
	FieldSpecialty     = "especialidad"
	FieldPreferredDate = "fechaPreferida"
	FieldTimeOfDay     = "franja"
	FieldComment       = "comentario"

	// FieldFullName is accepted from chat-derived candidates only; see NormalizeCandidate.
	FieldFullName = "nombreCompleto"
)

// Request is a complete appointment request. Values of this type returned by
// Validate with no issues are the only ones that may be submitted.
type Request struct {
	FirstName     string    `json:"nombre" validate:"required,min=2"`
	LastName      string    `json:"apellido" validate:"required,min=2"`
	NationalID    string    `json:"dni" validate:"omitempty,min=6,max=12"`
	Phone         string    `json:"telefono" validate:"required,min=6"`
	Email         string    `json:"email" validate:"omitempty,email"`
	Specialty     string    `json:"especialidad" validate:"required,min=2"`
	PreferredDate string    `json:"fechaPreferida" validate:"required,min=4"`
	TimeOfDay     TimeOfDay `json:"franja" validate:"required,oneof=morning afternoon either"`
	Comment       string    `json:"comentario" validate:"omitempty,max=500"`
}

// FullName joins first and last name.
func (r Request) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Fields returns the request as an untyped candidate keyed by wire names.
func (r Request) Fields() map[string]any {
	return map[string]any{
		FieldFirstName:     r.FirstName,
		FieldLastName:      r.LastName,
		FieldNationalID:    r.NationalID,
		FieldPhone:         r.Phone,
		FieldEmail:         r.Email,
		FieldSpecialty:     r.Specialty,
		FieldPreferredDate: r.PreferredDate,
		FieldTimeOfDay:     string(r.TimeOfDay),
		FieldComment:       r.Comment,
	}
}
