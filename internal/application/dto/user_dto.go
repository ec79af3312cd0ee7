package dto

import (
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// RegisterUserRequest alta de un usuario dentro de la empresa del token.
type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"required,min=1,max=50"`
}

// UpdateUserRequest cambio de rol o estado de un usuario.
type UpdateUserRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role   *string `json:"role" validate:"omitempty,min=1,max=50"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MeResponse usuario autenticado con sus permisos efectivos.
type MeResponse struct {
	User        UserResponse       `json:"user"`
	Permissions entity.Permissions `json:"permissions"`
	Modules     []string           `json:"modules"`
}

// CreateRoleRequest alta de un rol con sus banderas.
type CreateRoleRequest struct {
	Name        string             `json:"name" validate:"required,min=1,max=50"`
	Permissions entity.Permissions `json:"permissions"`
}

// UpdateRoleRequest cambio de nombre o banderas; mod_flag es el valor leído.
type UpdateRoleRequest struct {
	Name        *string             `json:"name" validate:"omitempty,min=1,max=50"`
	Permissions *entity.Permissions `json:"permissions"`
	ModFlag     int                 `json:"mod_flag" validate:"min=0"`
}

// RoleResponse salida de un rol.
type RoleResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Permissions entity.Permissions `json:"permissions"`
	IsSystem    bool               `json:"is_system"`
	ModFlag     int                `json:"mod_flag"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
