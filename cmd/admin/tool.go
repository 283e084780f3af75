package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"series_guide/internal/repository"
	"series_guide/model"
	"series_guide/pkg/password"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
)

const generatedPasswordLength = 16

var (
	errUserExists   = errors.New("a user with this username or email already exists")
	errUserNotFound = errors.New("user not found")
	errNotAdmin     = errors.New("user is not an admin")
)

// adminTool implements the maintenance commands on top of the user repository.
type adminTool struct {
	userRepo repository.IUserRepository
	hasher   *password.Hasher
	out      io.Writer
}

// createAdmin inserts a new admin account. Missing usernames and passwords
// are generated and printed once.
func (t *adminTool) createAdmin(username string, email string, pass string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return fmt.Errorf("invalid email %q: %w", email, err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = "admin-" + strings.Split(uuid.NewString(), "-")[0]
	}

	for _, identifier := range []string{username, email} {
		existing, err := t.userRepo.GetUserByIdentifier(identifier)
		if err != nil {
			return err
		}
		if existing != nil {
			return errUserExists
		}
	}

	pass, generated, err := t.resolvePassword(pass)
	if err != nil {
		return err
	}
	hash, err := t.hasher.Hash(pass)
	if err != nil {
		return err
	}

	user := model.NewUser(username, email, hash, model.AdminRole)
	id, err := t.userRepo.CreateUser(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return errUserExists
		}
		return err
	}

	_, _ = fmt.Fprintf(t.out, "admin created: id=%s username=%s email=%s\n", id.Hex(), username, email)
	if generated {
		_, _ = fmt.Fprintf(t.out, "generated password: %s\n", pass)
	}
	return nil
}

// resetPassword replaces the password of an existing admin.
func (t *adminTool) resetPassword(identifier string, pass string) error {
	user, err := t.userRepo.GetUserByIdentifier(strings.TrimSpace(identifier))
	if err != nil {
		return err
	}
	if user == nil {
		return errUserNotFound
	}
	if user.Role != model.AdminRole {
		return errNotAdmin
	}

	pass, generated, err := t.resolvePassword(pass)
	if err != nil {
		return err
	}
	hash, err := t.hasher.Hash(pass)
	if err != nil {
		return err
	}
	if err = t.userRepo.UpdateUserPassword(user.Id, hash); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(t.out, "password reset for %s\n", user.Username)
	if generated {
		_, _ = fmt.Fprintf(t.out, "generated password: %s\n", pass)
	}
	return nil
}

// check reports how many admin accounts exist and how many can sign in.
func (t *adminTool) check() (int64, error) {
	total, err := t.userRepo.CountUsers(model.AdminRole, false)
	if err != nil {
		return 0, err
	}
	active, err := t.userRepo.CountUsers(model.AdminRole, true)
	if err != nil {
		return 0, err
	}
	_, _ = fmt.Fprintf(t.out, "admins: %d (active: %d)\n", total, active)
	if active == 0 {
		_, _ = fmt.Fprintln(t.out, "no active admin, run with -create-admin")
	}
	return active, nil
}

func (t *adminTool) resolvePassword(pass string) (string, bool, error) {
	if pass != "" {
		if problems := password.ValidateStrength(pass); len(problems) > 0 {
			return "", false, fmt.Errorf("%w: %s", password.ErrWeakPassword, strings.Join(problems, ", "))
		}
		return pass, false, nil
	}
	for {
		generated, err := password.GenerateRandom(generatedPasswordLength)
		if err != nil {
			return "", false, err
		}
		if len(password.ValidateStrength(generated)) == 0 {
			return generated, true, nil
		}
	}
}
