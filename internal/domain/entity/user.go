package entity

import "time"

// Roles válidos de User.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager" // puede editar facturas y generar resúmenes
	RoleViewer  = "viewer"  // acceso de solo lectura al tablero
)

// User es un operador del API del tablero.
type User struct {
	ID           string
	Email        string
	PasswordHash string // hash bcrypt, nunca texto plano una vez persistido
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
