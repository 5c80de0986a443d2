// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/cabinet/internal/core/strain"
	"github.com/taibuivan/cabinet/internal/platform/apperr"
	"github.com/taibuivan/cabinet/internal/platform/validate"
	"github.com/taibuivan/cabinet/internal/users/auth"
	"github.com/taibuivan/cabinet/pkg/uuid"
)

// # Service Layer

// Service orchestrates registration, profile edits and the strain collection.
type Service struct {
	users      auth.UserRepository
	collection CollectionRepository
	catalog    StrainCatalog
	hasher     PasswordHasher
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	users auth.UserRepository,
	collection CollectionRepository,
	catalog StrainCatalog,
	hasher PasswordHasher,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:      users,
		collection: collection,
		catalog:    catalog,
		hasher:     hasher,
		logger:     logger,
	}
}

// registrationError builds the 422 answer naming the offending field.
func registrationError(field, message string) *apperr.AppError {
	return apperr.Unprocessable(message, apperr.FieldError{Field: field, Message: message})
}

// # Registration

/*
Register creates a new account.

Description: Credentials must not carry surrounding whitespace. Lengths are
checked after that, then uniqueness. Names are trimmed and stored as given.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *auth.User: The stored account
  - error: 422 apperr.Unprocessable on any rule, or storage failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*auth.User, error) {

	// Whitespace on credentials is rejected, never trimmed
	for _, credential := range []struct{ field, value string }{
		{auth.FieldUsername, input.Username},
		{auth.FieldPassword, input.Password},
	} {
		if strings.TrimSpace(credential.value) != credential.value {
			return nil, registrationError(credential.field, "Cannot start or end with whitespace")
		}
	}

	switch {
	case utf8.RuneCountInString(input.Username) < MinUsernameLength:
		return nil, registrationError(auth.FieldUsername, fmt.Sprintf("Must be at least %d characters long", MinUsernameLength))
	case utf8.RuneCountInString(input.Password) < MinPasswordLength:
		return nil, registrationError(auth.FieldPassword, fmt.Sprintf("Must be at least %d characters long", MinPasswordLength))
	case len(input.Password) > MaxPasswordLength:
		return nil, registrationError(auth.FieldPassword, fmt.Sprintf("Must be at most %d characters long", MaxPasswordLength))
	}

	user := &auth.User{
		ID:        uuid.New(),
		Username:  input.Username,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Strains:   []string{},
	}
	if err := validateNames(user.FirstName, user.LastName); err != nil {
		return nil, err
	}

	taken, err := service.users.ExistsByUsername(context, user.Username)
	if err != nil {
		return nil, fmt.Errorf("account_service_register_lookup_failed: %w", err)
	}
	if taken {
		return nil, registrationError(auth.FieldUsername, "Username already taken")
	}

	user.PasswordHash, err = service.hasher.Hash(context, input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_register_hash_failed: %w", err)
	}

	if err := service.users.Create(context, user); err != nil {

		// Lost a race with a concurrent registration of the same name
		var appErr *apperr.AppError
		if errors.As(err, &appErr) && appErr.Code == "CONFLICT" {
			return nil, registrationError(auth.FieldUsername, "Username already taken")
		}
		return nil, fmt.Errorf("account_service_register_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

func validateNames(firstName, lastName string) error {
	v := &validate.Validator{}
	v.MaxLen(auth.FieldFirstName, firstName, MaxNameLength).
		MaxLen(auth.FieldLastName, lastName, MaxNameLength)
	return v.Err()
}

// # Profile Management

/*
GetProfile retrieves the caller's account from storage.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

/*
UpdateProfile applies a partial change to the first and last name.

Description: Tokens issued before the change keep the old names until the
next login or refresh.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Validation, not found or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if err := validateNames(user.FirstName, user.LastName); err != nil {
		return nil, err
	}

	if err := service.users.UpdateProfile(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_profile_updated", slog.String("user_id", userID))
	return user, nil
}

// # Strain Collection

/*
ListStrains returns the full records of every strain the user keeps.

Description: Strain ids are read from the account, not from the token, so the
list reflects additions made after the token was issued.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*strain.Strain: Strains in the order they were added
  - error: Not found or storage failures
*/
func (service *Service) ListStrains(context context.Context, userID string) ([]*strain.Strain, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_strains_lookup_failed: %w", err)
	}

	strains, err := service.catalog.FindByIDs(context, user.Strains)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_strains_failed: %w", err)
	}
	return strains, nil
}

// AddStrain keeps a catalogue strain in the user's collection.
func (service *Service) AddStrain(context context.Context, userID, strainID string) error {
	if !uuid.IsValid(strainID) {
		return apperr.NotFound("Strain")
	}
	if _, err := service.catalog.FindByID(context, strainID); err != nil {
		return err
	}

	if err := service.collection.Add(context, userID, strainID); err != nil {
		return fmt.Errorf("account_service_add_strain_failed: %w", err)
	}
	return nil
}

// RemoveStrain drops a strain from the user's collection. Unknown ids are ignored.
func (service *Service) RemoveStrain(context context.Context, userID, strainID string) error {
	if !uuid.IsValid(strainID) {
		return nil
	}
	if err := service.collection.Remove(context, userID, strainID); err != nil {
		return fmt.Errorf("account_service_remove_strain_failed: %w", err)
	}
	return nil
}
