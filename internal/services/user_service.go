// Package services – UserService
//
// This file implements UserService: registration with bcrypt-hashed
// passwords, password changes, public profiles decorated with the viewer's
// subscription flag, and the subscription feed (followed authors with a
// preview of their newest recipes).
package services

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/domain"
	"github.com/tbourn/foodgram-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// usernameRe accepts letters and digits in any script plus . @ + - _.
var usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

const (
	minPasswordBytes = 8
	// bcrypt ignores input past 72 bytes; longer passwords are rejected.
	maxPasswordBytes = 72
	maxNameRunes     = 150
)

// ErrWrongPassword is returned by SetPassword when the current password does
// not match.
var ErrWrongPassword = &Error{Kind: ErrValidation, Code: "wrong_password", Rule: "current_password", Msg: "current password is incorrect"}

// RegisterInput is the payload for creating a user.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// UserView is a public profile as seen by a viewer.
type UserView struct {
	domain.User
	IsSubscribed bool
}

// AuthorView is a followed author with a preview of their recipes.
type AuthorView struct {
	UserView
	Recipes      []domain.Recipe
	RecipesCount int64
}

// UserService manages accounts and subscription feeds.
type UserService struct {
	DB *gorm.DB
	// BcryptCost is the bcrypt work factor; bcrypt.DefaultCost when zero.
	BcryptCost int
}

// ValidUsername reports whether s is a legal username: letters, digits and
// . @ + - _ only.
func ValidUsername(s string) bool { return usernameRe.MatchString(s) }

// Register validates in, hashes the password and stores the user.
// A taken email or username yields ErrUserExists.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Register", trace.WithAttributes(attribute.String("user.username", in.Username)))
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if _, err := mail.ParseAddress(in.Email); err != nil || strings.ContainsAny(in.Email, " <>") {
		return nil, validationError("email", "a valid email address is required")
	}
	if !ValidUsername(in.Username) || utf8.RuneCountInString(in.Username) > maxNameRunes {
		return nil, validationError("username", "username may contain only letters, digits and @/./+/-/_")
	}
	if strings.EqualFold(in.Username, "me") {
		return nil, validationError("username", `username "me" is reserved`)
	}
	if in.FirstName == "" || in.LastName == "" ||
		utf8.RuneCountInString(in.FirstName) > maxNameRunes || utf8.RuneCountInString(in.LastName) > maxNameRunes {
		return nil, validationError("name", "first and last name are required (at most 150 characters)")
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

// SetPassword replaces userID's password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, userID, current, next string) error {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "SetPassword", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := repo.GetUser(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
			return ErrWrongPassword
		}
		hash, err := s.hash(next)
		if err != nil {
			return err
		}
		return tx.Model(&domain.User{}).Where("id = ?", userID).Update("password_hash", hash).Error
	})
}

// Get returns user id as seen by viewerID.
func (s *UserService) Get(ctx context.Context, viewerID, id string) (*UserView, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	views, err := s.decorate(ctx, viewerID, []domain.User{*u})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Exists reports whether user id exists.
func (s *UserService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := repo.GetUser(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ListPage returns a page of users ordered by username.
func (s *UserService) ListPage(ctx context.Context, viewerID string, page, pageSize int) ([]UserView, int64, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize)),
	)
	defer span.End()

	page, pageSize, offset := pageBounds(page, pageSize)
	total, err := repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []UserView{}, 0, nil
	}
	users, err := repo.ListUsersPage(ctx, s.DB, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorate(ctx, viewerID, users)
	return views, total, err
}

// Author returns authorID's profile with up to recipesLimit newest recipes
// (all when recipesLimit <= 0) and their total recipe count.
func (s *UserService) Author(ctx context.Context, viewerID, authorID string, recipesLimit int) (*AuthorView, error) {
	uv, err := s.Get(ctx, viewerID, authorID)
	if err != nil {
		return nil, err
	}
	out, err := s.authors(ctx, []UserView{*uv}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Subscriptions returns the authors userID follows, each with a recipe
// preview. Following nobody is an empty page, not an error.
func (s *UserService) Subscriptions(ctx context.Context, userID string, page, pageSize, recipesLimit int) ([]AuthorView, int64, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Subscriptions",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("recipes_limit", recipesLimit),
		),
	)
	defer span.End()

	_, pageSize, offset := pageBounds(page, pageSize)
	total, err := repo.CountSubscriptions(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []AuthorView{}, 0, nil
	}
	users, err := repo.ListSubscribedAuthorsPage(ctx, s.DB, userID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	views := make([]UserView, len(users))
	for i := range users {
		views[i] = UserView{User: users[i], IsSubscribed: true}
	}
	out, err := s.authors(ctx, views, recipesLimit)
	return out, total, err
}

func (s *UserService) authors(ctx context.Context, users []UserView, recipesLimit int) ([]AuthorView, error) {
	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	counts, err := repo.CountRecipesByAuthor(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	out := make([]AuthorView, len(users))
	for i := range users {
		recipes, err := repo.ListAuthorRecipes(ctx, s.DB, users[i].ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		out[i] = AuthorView{UserView: users[i], Recipes: recipes, RecipesCount: counts[users[i].ID]}
	}
	return out, nil
}

func (s *UserService) decorate(ctx context.Context, viewerID string, users []domain.User) ([]UserView, error) {
	out := make([]UserView, len(users))
	ids := make([]string, len(users))
	for i := range users {
		out[i].User = users[i]
		ids[i] = users[i].ID
	}
	subs, err := repo.RelatedTargets(ctx, s.DB, domain.RelationSubscription, viewerID, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].IsSubscribed = subs[out[i].ID]
	}
	return out, nil
}

func (s *UserService) hash(password string) (string, error) {
	if len(password) < minPasswordBytes || len(password) > maxPasswordBytes {
		return "", validationError("password", "password must be 8 to 72 bytes long")
	}
	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// pageBounds normalizes 1-based paging input and returns the offset.
func pageBounds(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 6
	}
	return page, pageSize, (page - 1) * pageSize
}
