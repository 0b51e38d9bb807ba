package pets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound: el id no corresponde a ninguna mascota.
	// Se distingue de *ValidationError y de fallas inesperadas;
	// el handler mapea cada uno a una respuesta distinta.
	ErrNotFound = errors.New("pet not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Create valida el formulario y registra la mascota.
// Devuelve *ValidationError si el input no valida.
func (s *Service) Create(ctx context.Context, f PetForm) (Pet, error) {
	in, verr := f.validate()
	if verr != nil {
		return Pet{}, verr
	}

	now := s.now()
	p := Pet{
		Name:      in.name,
		Species:   in.species,
		Breed:     in.breed,
		Sex:       in.sex,
		BirthDate: in.birthDate,
		Microchip: in.microchip,
		Notes:     in.notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.Microchip == "" {
		p.Microchip = uuid.NewString()
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}

// Update valida el formulario y reemplaza el perfil de la mascota id.
// Devuelve ErrNotFound si no existe, *ValidationError si no valida.
func (s *Service) Update(ctx context.Context, id int64, f PetForm) (Pet, error) {
	in, verr := f.validate()
	if verr != nil {
		return Pet{}, verr
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	current.Name = in.name
	current.Species = in.species
	current.Breed = in.breed
	current.Sex = in.sex
	current.BirthDate = in.birthDate
	if in.microchip != "" {
		current.Microchip = in.microchip
	}
	current.Notes = in.notes
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Pet{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
