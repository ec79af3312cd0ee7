package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Comercio-api/internal/application/dto"
	"github.com/jhoicas/Comercio-api/internal/application/ports"
	"github.com/jhoicas/Comercio-api/internal/application/usecase"
	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login, roles y permisos.
type AuthUseCase struct {
	repos   ports.Repos
	modules *usecase.ModuleService
	audit   ports.AuditLogger
	jwtCfg  JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repos ports.Repos, modules *usecase.ModuleService, audit ports.AuditLogger, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{repos: repos, modules: modules, audit: audit, jwtCfg: jwtCfg}
}

// IssueToken firma el JWT con la identidad del usuario.
func (uc *AuthUseCase) IssueToken(u *entity.User) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{UserID: u.ID, CompanyID: u.CompanyID, Role: u.Role}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

// RegisterUser crea un usuario en la empresa del token: hashea password con bcrypt y persiste.
// El rol debe existir en la empresa. Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, companyID, actorID string, in dto.RegisterUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(in.Email)
	existing, err := uc.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	role, err := uc.repos.Roles.GetByName(ctx, companyID, in.Role)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: rol %q inexistente", domain.ErrInvalidInput, in.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role.Name,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repos.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: actorID, Entity: "user", EntityID: user.ID,
		Action: entity.AuditCreate, Details: map[string]string{"role": user.Role},
	})
	return usecase.EntityToUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.repos.Users.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	token, err := uc.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.EntityToUserResponse(user),
	}, nil
}

// Me devuelve el usuario autenticado con sus permisos efectivos y módulos activos.
func (uc *AuthUseCase) Me(ctx context.Context, companyID, userID string) (*dto.MeResponse, error) {
	user, err := uc.repos.Users.GetByID(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	perms, err := uc.ResolvePermissions(ctx, companyID, user.Role)
	if err != nil {
		return nil, err
	}
	modules, err := uc.modules.ActiveModules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: *usecase.EntityToUserResponse(user), Permissions: perms, Modules: modules}, nil
}

// ResolvePermissions devuelve las banderas del rol. El admin siempre tiene todas;
// un rol inexistente no tiene ninguna.
func (uc *AuthUseCase) ResolvePermissions(ctx context.Context, companyID, roleName string) (entity.Permissions, error) {
	if roleName == entity.RoleAdmin {
		return entity.AllPermissions(), nil
	}
	role, err := uc.repos.Roles.GetByName(ctx, companyID, roleName)
	if err != nil {
		return entity.Permissions{}, err
	}
	if role == nil {
		return entity.Permissions{}, nil
	}
	return role.Permissions, nil
}

// HasPermission informa si el rol tiene la bandera indicada.
func (uc *AuthUseCase) HasPermission(ctx context.Context, companyID, roleName, permission string) (bool, error) {
	perms, err := uc.ResolvePermissions(ctx, companyID, roleName)
	if err != nil {
		return false, err
	}
	return perms.Allows(permission), nil
}

// ListUsers lista los usuarios de la empresa.
func (uc *AuthUseCase) ListUsers(ctx context.Context, companyID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Users.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *usecase.EntityToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// UpdateUser cambia nombre, rol o estado de un usuario de la empresa.
func (uc *AuthUseCase) UpdateUser(ctx context.Context, companyID, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repos.Users.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Role != nil && *in.Role != user.Role {
		role, err := uc.repos.Roles.GetByName(ctx, companyID, *in.Role)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, fmt.Errorf("%w: rol %q inexistente", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = role.Name
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Status != nil {
		if id == actorID && *in.Status != entity.UserStatusActive {
			return nil, fmt.Errorf("%w: no puede desactivarse a sí mismo", domain.ErrInvalidInput)
		}
		user.Status = *in.Status
	}
	user.UpdatedAt = time.Now()
	if err := uc.repos.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.AuditRecord{
		CompanyID: companyID, UserID: actorID, Entity: "user", EntityID: id, Action: entity.AuditUpdate,
		Details: map[string]string{"role": user.Role, "status": user.Status},
	})
	return usecase.EntityToUserResponse(user), nil
}
