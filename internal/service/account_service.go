package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/condominio-auth/internal/model"
	"github.com/iliyamo/condominio-auth/internal/policy"
	"github.com/iliyamo/condominio-auth/internal/queue"
	"github.com/iliyamo/condominio-auth/internal/repository"
	"github.com/iliyamo/condominio-auth/internal/utils"
)

// AccountStore is the persistence the lifecycle manager needs.
type AccountStore interface {
	AccountReader
	List(ctx context.Context) ([]model.Account, error)
	Create(ctx context.Context, a model.Account) (model.Account, error)
	Update(ctx context.Context, id uint64, fn func(a *model.Account) error) (model.Account, error)
	Delete(ctx context.Context, id uint64) error
}

// UnitLookup answers whether a housing unit exists.
type UnitLookup interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

// AccountService owns every mutation of accounts and profiles.
type AccountService struct {
	Accounts   AccountStore
	Units      UnitLookup
	Tokens     *TokenService
	Policy     PasswordPolicy
	Events     EventPublisher
	BcryptCost int
	Log        *slog.Logger
	now        func() time.Time
}

func NewAccountService(accounts AccountStore, units UnitLookup, tokens *TokenService, pol PasswordPolicy, events EventPublisher, bcryptCost int, log *slog.Logger) *AccountService {
	if events == nil {
		events = NopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &AccountService{
		Accounts:   accounts,
		Units:      units,
		Tokens:     tokens,
		Policy:     pol,
		Events:     events,
		BcryptCost: bcryptCost,
		Log:        log,
		now:        time.Now,
	}
}

// CreateAccountInput is the payload of account creation.  An empty Role
// means the default role.
type CreateAccountInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	Role            string
	Phone           *string
	UnitID          *uint64
}

// Patch carries an optional nullable field: Set reports whether the field
// was present at all, Value is nil when it was explicitly cleared.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// UpdateAccountInput lists the writable fields; nil means "not provided".
// Role and password are deliberately absent.
type UpdateAccountInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Phone     Patch[string]
	UnitID    Patch[uint64]
	Active    *bool
}

// Get returns one account.
func (s *AccountService) Get(ctx context.Context, id uint64) (model.Account, error) {
	a, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return model.Account{}, mapStoreErr(err)
	}
	return a, nil
}

// List returns every account.
func (s *AccountService) List(ctx context.Context) ([]model.Account, error) {
	return s.Accounts.List(ctx)
}

// Create registers a new active account.
func (s *AccountService) Create(ctx context.Context, actorID uint64, in CreateAccountInput) (model.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" {
		return model.Account{}, fmt.Errorf("%w: username and email are required", ErrInvalidInput)
	}
	if err := s.Policy.Validate(in.Password, in.Username, in.Email, in.FirstName, in.LastName); err != nil {
		return model.Account{}, err
	}
	if in.Password != in.PasswordConfirm {
		return model.Account{}, ErrPasswordMismatch
	}
	role := model.DefaultRole
	if strings.TrimSpace(in.Role) != "" {
		r, ok := model.ParseRole(in.Role)
		if !ok {
			return model.Account{}, fmt.Errorf("%w: %q", ErrInvalidRole, in.Role)
		}
		role = r
	}
	// actorID 0 is the setup-admin bootstrap
	if role != model.DefaultRole && actorID != 0 {
		if err := s.requireSuperAdmin(ctx, actorID); err != nil {
			return model.Account{}, fmt.Errorf("%w: only SUPER_ADMIN assigns role %s", err, role)
		}
	}
	if err := s.checkUnit(ctx, in.UnitID); err != nil {
		return model.Account{}, err
	}
	hash, err := utils.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return model.Account{}, fmt.Errorf("hash password: %w", err)
	}

	a := model.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Profile:      model.Profile{Phone: normalizePhone(in.Phone), UnitID: in.UnitID},
	}
	a.SetRole(role)
	a.SetActive(true)

	created, err := s.Accounts.Create(ctx, a)
	if err != nil {
		return model.Account{}, mapStoreErr(err)
	}
	s.publish(ctx, queue.AccountEvent{
		Type: queue.AccountCreated, AccountID: created.ID, ActorID: actorID,
		Username: created.Username, Role: created.Profile.Role.String(),
	})
	return created, nil
}

// Update applies in to the account.  With full set every required field
// must be present and omitted optional fields are reset (PUT); otherwise
// only the provided fields change (PATCH).
func (s *AccountService) Update(ctx context.Context, actorID, id uint64, in UpdateAccountInput, full bool) (model.Account, error) {
	if full {
		if in.Username == nil || in.Email == nil || in.Active == nil {
			return model.Account{}, fmt.Errorf("%w: username, email and activo are required", ErrInvalidInput)
		}
		empty := ""
		if in.FirstName == nil {
			in.FirstName = &empty
		}
		if in.LastName == nil {
			in.LastName = &empty
		}
		in.Phone.Set = true
		in.UnitID.Set = true
	}
	if in.Username != nil && strings.TrimSpace(*in.Username) == "" {
		return model.Account{}, fmt.Errorf("%w: username may not be blank", ErrInvalidInput)
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) == "" {
		return model.Account{}, fmt.Errorf("%w: email may not be blank", ErrInvalidInput)
	}
	if in.UnitID.Set {
		if err := s.checkUnit(ctx, in.UnitID.Value); err != nil {
			return model.Account{}, err
		}
	}

	updated, err := s.Accounts.Update(ctx, id, func(a *model.Account) error {
		if in.Username != nil {
			a.Username = *in.Username
		}
		if in.Email != nil {
			a.Email = *in.Email
		}
		if in.FirstName != nil {
			a.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			a.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.Phone.Set {
			a.Profile.Phone = normalizePhone(in.Phone.Value)
		}
		if in.UnitID.Set {
			a.Profile.UnitID = in.UnitID.Value
		}
		if in.Active != nil {
			a.SetActive(*in.Active)
		}
		return nil
	})
	if err != nil {
		return model.Account{}, mapStoreErr(err)
	}
	active := updated.Active()
	s.publish(ctx, queue.AccountEvent{
		Type: queue.AccountUpdated, AccountID: updated.ID, ActorID: actorID,
		Username: updated.Username, Active: &active,
	})
	return updated, nil
}

// ChangeRole assigns a new role to targetID on behalf of actorID.  Only a
// SUPER_ADMIN may do this and never on their own account.
func (s *AccountService) ChangeRole(ctx context.Context, actorID, targetID uint64, rawRole string) (model.Account, error) {
	if actorID == targetID {
		return model.Account{}, ErrSelfRoleChange
	}
	role, ok := model.ParseRole(rawRole)
	if !ok {
		return model.Account{}, fmt.Errorf("%w: %q", ErrInvalidRole, rawRole)
	}
	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return model.Account{}, err
	}

	var prev model.Role
	updated, err := s.Accounts.Update(ctx, targetID, func(a *model.Account) error {
		prev = a.Profile.Role
		a.SetRole(role)
		return nil
	})
	if err != nil {
		return model.Account{}, mapStoreErr(err)
	}
	s.Log.Info("role changed", slog.Uint64("account_id", targetID), slog.Uint64("actor_id", actorID),
		slog.String("from", prev.String()), slog.String("to", role.String()))
	s.publish(ctx, queue.AccountEvent{
		Type: queue.AccountRoleChanged, AccountID: updated.ID, ActorID: actorID,
		Username: updated.Username, Role: role.String(), PrevRole: prev.String(),
	})
	return updated, nil
}

// requireSuperAdmin checks the actor's stored role, not the one its token
// was issued with.
func (s *AccountService) requireSuperAdmin(ctx context.Context, actorID uint64) error {
	actor, err := s.Accounts.GetByID(ctx, actorID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrForbidden
	}
	if err != nil {
		return err
	}
	if !actor.Active() || !policy.Authorize(actor.Profile.Role, policy.SuperAdminOnly) {
		return ErrForbidden
	}
	return nil
}

// ChangePassword replaces the password after proving knowledge of the old one.
func (s *AccountService) ChangePassword(ctx context.Context, id uint64, oldPassword, newPassword, confirm string) error {
	a, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if !utils.VerifyPassword(a.PasswordHash, oldPassword) {
		return ErrOldPasswordIncorrect
	}
	if err := s.Policy.Validate(newPassword, a.Username, a.Email, a.FirstName, a.LastName); err != nil {
		return err
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	hash, err := utils.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.Accounts.Update(ctx, id, func(a *model.Account) error {
		a.PasswordHash = hash
		return nil
	}); err != nil {
		return mapStoreErr(err)
	}
	s.publish(ctx, queue.AccountEvent{
		Type: queue.AccountPasswordChanged, AccountID: a.ID, ActorID: a.ID, Username: a.Username,
	})
	return nil
}

// Logout revokes the caller's refresh token.  An invalid, foreign or
// already revoked token is silently ignored; only storage failures are
// returned.
func (s *AccountService) Logout(ctx context.Context, a model.Account, refreshToken string) error {
	revoked, err := s.Tokens.RevokeOwned(ctx, a.ID, refreshToken)
	switch {
	case err == nil && !revoked:
		s.Log.Debug("logout with already revoked refresh token", slog.Uint64("account_id", a.ID))
		return nil
	case err == nil:
		s.publish(ctx, queue.AccountEvent{
			Type: queue.SessionRevoked, AccountID: a.ID, ActorID: a.ID, Username: a.Username,
		})
		return nil
	case errors.Is(err, ErrTokenInvalid):
		s.Log.Debug("logout with unusable refresh token", slog.Uint64("account_id", a.ID))
		return nil
	}
	return err
}

// Delete removes an account and its profile.  Deleting oneself is refused.
func (s *AccountService) Delete(ctx context.Context, actorID, id uint64) error {
	if actorID == id {
		return fmt.Errorf("%w: cannot delete own account", ErrForbidden)
	}
	a, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if err := s.Accounts.Delete(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	s.publish(ctx, queue.AccountEvent{
		Type: queue.AccountDeleted, AccountID: id, ActorID: actorID, Username: a.Username,
	})
	return nil
}

// AdminInput describes the bootstrap super administrator.
type AdminInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// EnsureSuperAdmin creates the bootstrap SUPER_ADMIN, or promotes and
// reactivates the existing account of that username.  The password of an
// existing account is left alone.
func (s *AccountService) EnsureSuperAdmin(ctx context.Context, in AdminInput) (model.Account, bool, error) {
	existing, err := s.Accounts.GetByUsername(ctx, in.Username)
	switch {
	case err == nil:
		a, err := s.Accounts.Update(ctx, existing.ID, func(a *model.Account) error {
			a.SetRole(model.RoleSuperAdmin)
			a.SetActive(true)
			return nil
		})
		if err != nil {
			return model.Account{}, false, mapStoreErr(err)
		}
		return a, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return model.Account{}, false, err
	}
	a, err := s.Create(ctx, 0, CreateAccountInput{
		Username:        in.Username,
		Email:           in.Email,
		Password:        in.Password,
		PasswordConfirm: in.Password,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Role:            model.RoleSuperAdmin.String(),
	})
	if err != nil {
		return model.Account{}, false, err
	}
	return a, true, nil
}

func (s *AccountService) checkUnit(ctx context.Context, id *uint64) error {
	if id == nil || s.Units == nil {
		return nil
	}
	ok, err := s.Units.Exists(ctx, *id)
	if err != nil {
		return fmt.Errorf("lookup unit: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidUnit, *id)
	}
	return nil
}

func normalizePhone(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// mapStoreErr converts repository sentinels into service ones.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		if f := repository.DuplicateField(err); f != "" {
			return fmt.Errorf("%w: %s", ErrDuplicateAccount, f)
		}
		return ErrDuplicateAccount
	case errors.Is(err, repository.ErrInvalidReference):
		return ErrInvalidUnit
	}
	return err
}
