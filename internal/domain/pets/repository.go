package pets

import "context"

// Repository es el contrato de storage del módulo.
// Las implementaciones devuelven ErrNotFound cuando el id no existe.
type Repository interface {
	// Create persiste p y devuelve la copia con el ID asignado.
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id int64) error
}
