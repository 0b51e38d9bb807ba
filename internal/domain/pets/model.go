package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func ValidSpecies(s string) bool {
	switch Species(s) {
	case SpeciesDog, SpeciesCat:
		return true
	default:
		return false
	}
}

func ValidSex(s string) bool {
	switch Sex(s) {
	case SexMale, SexFemale, SexUnknown:
		return true
	default:
		return false
	}
}

// Pet representa el perfil básico de una mascota registrada en el sistema.
// El ID lo asigna el repositorio (serial en Postgres, contador en memoria).
type Pet struct {
	ID int64

	Name    string
	Species Species // dog, cat
	Breed   string
	Sex     Sex // male, female, unknown

	BirthDate *time.Time
	Microchip string // uuid asignado al crear si viene vacío

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
