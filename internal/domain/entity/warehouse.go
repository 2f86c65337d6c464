package entity

import "time"

// Warehouse representa una bodega de la red. La bodega central (hub) no se guarda:
// se resuelve por código/nombre en cada operación (ver paquete hub).
type Warehouse struct {
	ID        string
	Name      string
	Location  string
	Code      string // único
	Capacity  *int   // informativo, el motor no lo valida
	CreatedAt time.Time
	UpdatedAt time.Time
}
