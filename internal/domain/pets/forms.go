package pets

import (
	"fmt"
	"strings"
	"time"
)

// FieldError es un error de validación atado a un campo del formulario.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError agrupa los errores de campo de un submit.
// Los handlers lo detectan con errors.As y re-renderizan el formulario;
// nunca se usa una excepción/panic para ese branch.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

// PetForm es el input tipado de create/edit.
// Los tags schema mapean los nombres de campo del form body (urlencoded).
type PetForm struct {
	Name      string `schema:"name"`
	Species   string `schema:"species"`
	Breed     string `schema:"breed"`
	Sex       string `schema:"sex"`
	BirthDate string `schema:"birth_date"` // YYYY-MM-DD opcional
	Microchip string `schema:"microchip"`
	Notes     string `schema:"notes"`
}

// profile es el resultado ya validado y parseado de un PetForm.
type profile struct {
	name      string
	species   Species
	breed     string
	sex       Sex
	birthDate *time.Time
	microchip string
	notes     string
}

// validate devuelve el profile parseado o un *ValidationError con
// todos los campos inválidos (no corta en el primero).
func (f PetForm) validate() (profile, *ValidationError) {
	verr := &ValidationError{}

	name := strings.TrimSpace(f.Name)
	if name == "" {
		verr.add("name", "name is required")
	}

	species := strings.TrimSpace(f.Species)
	switch {
	case species == "":
		verr.add("species", "species is required")
	case !ValidSpecies(species):
		verr.add("species", "species must be dog or cat")
	}

	sex := strings.TrimSpace(f.Sex)
	if sex == "" {
		sex = string(SexUnknown)
	} else if !ValidSex(sex) {
		verr.add("sex", "sex must be male, female or unknown")
	}

	var bd *time.Time
	if s := strings.TrimSpace(f.BirthDate); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			verr.add("birth_date", "birth_date must be YYYY-MM-DD")
		} else {
			bd = &t
		}
	}

	if len(verr.Fields) > 0 {
		return profile{}, verr
	}

	return profile{
		name:      name,
		species:   Species(species),
		breed:     strings.TrimSpace(f.Breed),
		sex:       Sex(sex),
		birthDate: bd,
		microchip: strings.TrimSpace(f.Microchip),
		notes:     strings.TrimSpace(f.Notes),
	}, nil
}
