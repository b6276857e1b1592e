package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/apperr"
	"beyondnp-backend/internal/auth"
	"beyondnp-backend/internal/database"
	"beyondnp-backend/internal/mailer"
	"beyondnp-backend/internal/models"
)

const invalidCredentials = "Invalid email or password"

// Stores groups the persistence dependencies shared by the services.
type Stores struct {
	Users        UserStore
	Collections  CollectionStore
	Notes        NoteStore
	Documents    DocumentStore
	Universities UniversityStore
	Tx           database.Transactor
}

// UserOptions tunes account behaviour.
type UserOptions struct {
	CodeTTL     time.Duration
	MailTimeout time.Duration
}

// UserService owns registration, email verification, login and the
// account-level operations of an authenticated user.
type UserService struct {
	st     Stores
	tokens TokenIssuer
	mail   mailer.Mailer
	opts   UserOptions
	now    func() time.Time

	// background email sends, drained by Wait
	pending sync.WaitGroup
}

func NewUserService(st Stores, tokens TokenIssuer, mail mailer.Mailer, opts UserOptions) *UserService {
	if opts.CodeTTL == 0 {
		opts.CodeTTL = 10 * time.Minute
	}
	if opts.MailTimeout == 0 {
		opts.MailTimeout = 15 * time.Second
	}
	return &UserService{st: st, tokens: tokens, mail: mail, opts: opts, now: time.Now}
}

// Wait blocks until every background email send has finished.
func (s *UserService) Wait() {
	s.pending.Wait()
}

// AuthResult is returned by the flows that may hand out a token.
type AuthResult struct {
	User                 *models.User
	Token                string
	RequiresVerification bool
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) Validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name,
			validation.Required.Error("Name is required"),
			validation.RuneLength(2, 50).Error("Name must be between 2 and 50 characters")),
		validation.Field(&in.Email,
			validation.Required.Error("Email is required"),
			validation.Match(emailPattern).Error("Please provide a valid email address")),
		validation.Field(&in.Password,
			validation.Required.Error("Password is required"),
			validation.RuneLength(6, 0).Error("Password must be at least 6 characters"),
			validation.By(passwordFits)),
	)
}

// Register creates an unverified account and emails it a verification code.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := invalid(in.Validate()); err != nil {
		return nil, err
	}

	existing, err := s.st.Users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("User already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := models.NewUser(in.Name, in.Email, hash)
	if err := s.issueCode(user); err != nil {
		return nil, err
	}
	if err := s.st.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.sendVerificationAsync(user.Email, user.Name, user.EmailVerificationCode)
	return user, nil
}

// Login checks credentials. An unverified account gets a fresh code and a
// result with RequiresVerification set instead of a token.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.ErrUnauthorized, invalidCredentials)
	}

	user, err := s.st.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.Password, password) {
		return nil, apperr.New(apperr.ErrUnauthorized, invalidCredentials)
	}

	if !user.IsEmailVerified {
		if err := s.issueCode(user); err != nil {
			return nil, err
		}
		if err := s.st.Users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("store verification code: %w", err)
		}
		s.sendVerificationAsync(user.Email, user.Name, user.EmailVerificationCode)
		return &AuthResult{User: user, RequiresVerification: true}, nil
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.st.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	return s.withToken(user)
}

// VerifyEmail consumes a verification code and signs the user in.
func (s *UserService) VerifyEmail(ctx context.Context, email, code string) (*AuthResult, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, apperr.Validation("Email and verification code are required")
	}

	user, err := s.st.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.VerificationValid(code, s.now()) {
		return nil, apperr.Validation("Invalid or expired verification code")
	}

	marked, err := s.st.Users.MarkVerified(ctx, user.ID, code)
	if err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	if !marked {
		// another request consumed the code first
		return nil, apperr.Validation("Invalid or expired verification code")
	}
	user.IsEmailVerified = true
	user.EmailVerificationCode = ""
	user.EmailVerificationExpires = nil

	s.background(func(ctx context.Context) error {
		return s.mail.SendWelcome(ctx, user.Email, user.Name)
	})
	return s.withToken(user)
}

// ResendVerification rotates the code and sends it synchronously. The new
// code stays stored even when delivery fails.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation("Email is required")
	}

	user, err := s.st.Users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}
	if user.IsEmailVerified {
		return apperr.Validation("Email is already verified")
	}

	if err := s.issueCode(user); err != nil {
		return err
	}
	if err := s.st.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.opts.MailTimeout)
	defer cancel()
	if err := s.mail.SendVerification(sendCtx, user.Email, user.Name, user.EmailVerificationCode); err != nil {
		slog.ErrorContext(ctx, "send verification email", slog.String("error", err.Error()))
		return apperr.New(apperr.ErrInternal, "Failed to send verification email. Please try again.")
	}
	return nil
}

// Authenticate resolves the user behind a verified token subject.
func (s *UserService) Authenticate(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	user, err := s.st.Users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.ErrUnauthorized, "Not authorized, user not found")
	}
	if !user.IsEmailVerified {
		return nil, apperr.New(apperr.ErrForbidden, "Please verify your email before accessing this resource")
	}
	return user, nil
}

func (s *UserService) issueCode(user *models.User) error {
	code, err := auth.NewVerificationCode()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.opts.CodeTTL)
	user.EmailVerificationCode = code
	user.EmailVerificationExpires = &expires
	return nil
}

func (s *UserService) withToken(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) sendVerificationAsync(to, name, code string) {
	s.background(func(ctx context.Context) error {
		return s.mail.SendVerification(ctx, to, name, code)
	})
}

// background runs an email send detached from the request. Failures are
// logged and never affect the caller.
func (s *UserService) background(send func(ctx context.Context) error) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.MailTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			slog.Error("background email failed", slog.String("error", err.Error()))
		}
	}()
}
