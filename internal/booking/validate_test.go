package booking

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCandidate() map[string]any {
	return map[string]any{
		"nombre":         "Ana",
		"apellido":       "Diaz",
		"telefono":       "2641112222",
		"especialidad":   "Pediatría",
		"fechaPreferida": "15/03",
		"franja":         "morning",
	}
}

func TestValidate_AcceptsMinimalRequest(t *testing.T) {
	req, issues := Validate(validCandidate())
	require.Empty(t, issues)

	assert.Equal(t, "Ana", req.FirstName)
	assert.Equal(t, "Diaz", req.LastName)
	assert.Equal(t, "", req.NationalID)
	assert.Equal(t, "", req.Email)
	assert.Equal(t, "Pediatría", req.Specialty)
	assert.Equal(t, TimeOfDayMorning, req.TimeOfDay)
}

func TestValidate_RejectsEachMissingRequiredField(t *testing.T) {
	for _, field := range []string{"nombre", "apellido", "telefono", "especialidad", "fechaPreferida", "franja"} {
		t.Run(field, func(t *testing.T) {
			candidate := validCandidate()
			delete(candidate, field)

			_, issues := Validate(candidate)
			require.NotEmpty(t, issues)
			assert.Equal(t, []string{field}, issues.Fields())
			assert.Equal(t, "required", issues[0].Code)
		})
	}
}

func TestValidate_BlankCountsAsMissing(t *testing.T) {
	candidate := validCandidate()
	candidate["nombre"] = "   "

	_, issues := Validate(candidate)
	require.Len(t, issues, 1)
	assert.Equal(t, "nombre", issues[0].Field())
}

func TestValidate_EnumeratesEveryFailingField(t *testing.T) {
	_, issues := Validate(map[string]any{
		"nombre":   "A",
		"telefono": "123",
		"email":    "not-an-email",
		"franja":   "noche",
	})

	assert.Equal(t,
		[]string{"nombre", "apellido", "telefono", "email", "especialidad", "fechaPreferida", "franja"},
		issues.Fields(),
	)
}

func TestValidate_RejectsInvalidEmail(t *testing.T) {
	candidate := validCandidate()
	candidate["email"] = "not-an-email"

	_, issues := Validate(candidate)
	require.Len(t, issues, 1)
	assert.Equal(t, "email", issues[0].Field())
	assert.Equal(t, "email", issues[0].Code)
}

func TestValidate_OptionalFields(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		value  any
		wantOK bool
	}{
		{"empty dni", "dni", "", true},
		{"null dni", "dni", nil, true},
		{"six char dni", "dni", "123456", true},
		{"twelve char dni", "dni", "123456789012", true},
		{"short dni", "dni", "12345", false},
		{"long dni", "dni", "1234567890123", false},
		{"empty email", "email", "", true},
		{"valid email", "email", "ana@example.com", true},
		{"empty comment", "comentario", "", true},
		{"max comment", "comentario", repeat("a", 500), true},
		{"numeric phone", "telefono", 2641112222, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validCandidate()
			candidate[tt.field] = tt.value

			_, issues := Validate(candidate)
			if tt.wantOK {
				assert.Empty(t, issues)
				return
			}
			require.Len(t, issues, 1)
			assert.Equal(t, tt.field, issues[0].Field())
		})
	}
}

func TestValidate_CommentLimitCountsRunes(t *testing.T) {
	candidate := validCandidate()
	candidate["comentario"] = repeat("ñ", 500)
	_, issues := Validate(candidate)
	assert.Empty(t, issues)

	candidate["comentario"] = repeat("ñ", 501)
	_, issues = Validate(candidate)
	require.Len(t, issues, 1)
	assert.Equal(t, "max", issues[0].Code)
}

func TestValidate_TimeOfDayAcceptsExactlyThreeValues(t *testing.T) {
	for _, value := range []string{"morning", "afternoon", "either"} {
		candidate := validCandidate()
		candidate["franja"] = value
		_, issues := Validate(candidate)
		assert.Empty(t, issues, value)
	}
	for _, value := range []string{"mañana", "Morning", "evening", "tarde", "any"} {
		candidate := validCandidate()
		candidate["franja"] = value
		_, issues := Validate(candidate)
		require.Len(t, issues, 1, value)
		assert.Equal(t, "franja", issues[0].Field())
	}
}

func TestValidate_NonObject(t *testing.T) {
	for _, candidate := range []any{nil, "hola", 42, []any{"nombre"}} {
		_, issues := Validate(candidate)
		require.Len(t, issues, 1)
		assert.Equal(t, "invalid_type", issues[0].Code)
		assert.Empty(t, issues[0].Field())
	}
}

func TestValidate_RoundTripIsIdempotent(t *testing.T) {
	candidate := validCandidate()
	candidate["dni"] = "30111222"
	candidate["email"] = "ana@example.com"
	candidate["comentario"] = "Control anual"

	first, issues := Validate(candidate)
	require.Empty(t, issues)

	second, issues := Validate(first.Fields())
	require.Empty(t, issues)
	assert.Equal(t, first, second)
	assert.Empty(t, second.Check())
}

func TestValidate_DecodedJSON(t *testing.T) {
	var candidate any
	raw := `{"nombre":"Ana","apellido":"Diaz","telefono":"2641112222","especialidad":"Pediatría","fechaPreferida":"15/03","franja":"either","email":""}`
	require.NoError(t, json.Unmarshal([]byte(raw), &candidate))

	req, issues := Validate(candidate)
	require.Empty(t, issues)
	assert.Equal(t, TimeOfDayEither, req.TimeOfDay)
}

func TestRequestCheck_ReportsWireNames(t *testing.T) {
	issues := Request{FirstName: "Ana", TimeOfDay: "noche"}.Check()
	assert.Equal(t, []string{"apellido", "telefono", "especialidad", "fechaPreferida", "franja"}, issues.Fields())
}

func TestIssuesError(t *testing.T) {
	issues := Issues{
		{Path: []string{"email"}, Code: "email", Message: "must be a valid email address"},
		{Path: []string{}, Code: "invalid_type", Message: "expected object"},
	}
	assert.Equal(t, "booking: invalid request: email: must be a valid email address; expected object", issues.Error())
}

func repeat(s string, n int) string {
	return strings.Repeat(s, n)
}
