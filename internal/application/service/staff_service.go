package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
	"github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

const staffCacheKey = "staff"

// StaffService manages user accounts and answers seller lookups for the
// cashout and history filters.
type StaffService struct {
	gateway repository.StaffGateway
	cache   *cache.Cache
	log     *logrus.Logger
}

// NewStaffService creates a new staff service
func NewStaffService(gateway repository.StaffGateway, ttl time.Duration, log *logrus.Logger) *StaffService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StaffService{
		gateway: gateway,
		cache:   cache.New(ttl, 2*ttl),
		log:     log,
	}
}

// ListUsers returns every upstream account.
func (s *StaffService) ListUsers(ctx context.Context) ([]entity.StaffUser, error) {
	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not load users")
	}
	sortUsers(users)
	return users, nil
}

// ListStaff returns the admins and sellers, sorted by name.
func (s *StaffService) ListStaff(ctx context.Context) ([]entity.StaffUser, error) {
	if cached, ok := s.cache.Get(staffCacheKey); ok {
		return cached.([]entity.StaffUser), nil
	}

	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not load sellers")
	}
	staff := make([]entity.StaffUser, 0, len(users))
	for _, u := range users {
		if enum.IsStaffRole(u.Role) {
			staff = append(staff, u)
		}
	}
	sortUsers(staff)
	s.cache.SetDefault(staffCacheKey, staff)
	return staff, nil
}

// FindStaff returns the staff member with id, or nil when unknown.
func (s *StaffService) FindStaff(ctx context.Context, id string) (*entity.StaffUser, error) {
	staff, err := s.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range staff {
		if utils.SameID(u.ID, id) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// UserInput represents the create and update user input. Password is
// optional on update.
type UserInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Rut      string `json:"rut" validate:"required,max=12"`
	Role     string `json:"role" validate:"required,oneof=admin vendedor cliente"`
	Password string `json:"password" validate:"omitempty,min=4"`
}

func (in *UserInput) sanitize() {
	in.Name = utils.SanitizeText(in.Name)
	in.Rut = strings.TrimSpace(in.Rut)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
}

// CreateUser creates a new account. A password is required.
func (s *StaffService) CreateUser(ctx context.Context, input *UserInput) (*entity.StaffUser, error) {
	input.sanitize()
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, apperror.NewFieldError("password", "This field is required")
	}

	user, err := s.gateway.CreateUser(ctx, entity.StaffUser{Name: input.Name, Rut: input.Rut, Role: input.Role}, input.Password)
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not create the user")
	}
	s.cache.Delete(staffCacheKey)
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user created")
	return user, nil
}

// UpdateUser updates an account, changing the password only when one is given.
func (s *StaffService) UpdateUser(ctx context.Context, id string, input *UserInput) (*entity.StaffUser, error) {
	input.sanitize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.gateway.UpdateUser(ctx, entity.StaffUser{ID: id, Name: input.Name, Rut: input.Rut, Role: input.Role}, input.Password)
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not update the user")
	}
	s.cache.Delete(staffCacheKey)
	return user, nil
}

// DeleteUser deletes an account. Users cannot delete themselves.
func (s *StaffService) DeleteUser(ctx context.Context, actorID, id string) error {
	if utils.SameID(actorID, id) {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}
	if err := s.gateway.DeleteUser(ctx, id); err != nil {
		return apperror.WithFallback(err, "Could not delete the user")
	}
	s.cache.Delete(staffCacheKey)
	return nil
}

func sortUsers(users []entity.StaffUser) {
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})
}
