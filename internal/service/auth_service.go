package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"Inkwell/internal/conf"
	"Inkwell/internal/data"
	"Inkwell/internal/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"Inkwell/internal/token"

	"gorm.io/gorm"
)

type AuthService struct {
	Data   *data.Data
	cfg    conf.AppConfig
	tokens *token.Service
	mail   *MailService
	users  repository.UserRepository
	roles  repository.RoleRepository
}

func NewAuthService(d *data.Data, cfg conf.AppConfig, tokens *token.Service, mail *MailService) *AuthService {
	return &AuthService{
		Data:   d,
		cfg:    cfg,
		tokens: tokens,
		mail:   mail,
		users:  repository.NewUserRepository(d.DB),
		roles:  repository.NewRoleRepository(d.DB),
	}
}

// Register creates the account, its self-follow edge and queues the
// confirmation mail. Taken addresses and names come back as dto.FieldErrors.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterReq) (*model.User, error) {
	fe := req.Validate()
	email := dto.NormalizeEmail(req.Email)
	if _, bad := fe["email"]; !bad && s.users.IsEmailExist(email, 0) {
		fe.Add("email", "Email already registered.")
	}
	if _, bad := fe["username"]; !bad && s.users.IsUsernameExist(req.Username, 0) {
		fe.Add("username", "Username already in use.")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	role, err := s.roleFor(email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		Username:    req.Username,
		MemberSince: now,
		LastSeen:    now,
		RoleID:      &role.ID,
	}
	user.SetEmail(email)
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	err = s.Data.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(user); err != nil {
			return err
		}
		return repository.NewFollowRepository(tx).Follow(user.ID, user.ID, now)
	})
	if err != nil {
		return nil, err
	}
	user.Role = role
	log.Printf("✅ user %s registered (role=%s)", user.Username, role.Name)

	if err := s.sendConfirmation(ctx, user); err != nil {
		log.Printf("❌ confirmation mail for %s: %v", user.Username, err)
	}
	return user, nil
}

func (s *AuthService) roleFor(email string) (*model.Role, error) {
	if admin := dto.NormalizeEmail(s.cfg.AdminEmail); admin != "" && admin == email {
		return s.roles.GetByName(model.RoleAdministrator)
	}
	return s.roles.GetDefault()
}

func (s *AuthService) Authenticate(email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(dto.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Confirm marks user confirmed if tok is a live confirmation token for them.
func (s *AuthService) Confirm(user *model.User, tok string) error {
	if user.Confirmed {
		return nil
	}
	claims, ok := s.tokens.Verify(tok, token.PurposeConfirm)
	if !ok || claims.UserID != user.ID {
		return ErrInvalidToken
	}
	user.Confirmed = true
	return s.users.Save(user)
}

func (s *AuthService) ResendConfirmation(ctx context.Context, user *model.User) error {
	return s.sendConfirmation(ctx, user)
}

func (s *AuthService) sendConfirmation(ctx context.Context, user *model.User) error {
	tok, err := s.tokens.Generate(token.PurposeConfirm, user.ID, s.cfg.TokenTTL)
	if err != nil {
		return err
	}
	_, err = s.mail.Send(ctx, user.Email, "Confirm Your Account", string(token.PurposeConfirm),
		confirmText(user.Username, s.link("/auth/confirm/"+tok)))
	return err
}

func (s *AuthService) ChangePassword(user *model.User, req dto.ChangePasswordReq) error {
	if err := req.Validate().Err(); err != nil {
		return err
	}
	if !user.VerifyPassword(req.OldPassword) {
		return ErrInvalidPassword
	}
	if err := user.SetPassword(req.Password); err != nil {
		return err
	}
	return s.users.Save(user)
}

// RequestPasswordReset mails a reset link. Unknown addresses succeed silently
// so the form cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequestReq) error {
	if err := req.Validate().Err(); err != nil {
		return err
	}
	user, err := s.users.GetByEmail(dto.NormalizeEmail(req.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	tok, err := s.tokens.Generate(token.PurposeReset, user.ID, s.cfg.TokenTTL)
	if err != nil {
		return err
	}
	_, err = s.mail.Send(ctx, user.Email, "Reset Your Password", string(token.PurposeReset),
		resetText(user.Username, s.link("/auth/reset/"+tok)))
	return err
}

func (s *AuthService) ResetPassword(tok string, req dto.PasswordResetReq) error {
	if err := req.Validate().Err(); err != nil {
		return err
	}
	claims, ok := s.tokens.Verify(tok, token.PurposeReset)
	if !ok {
		return ErrInvalidToken
	}
	user, err := s.users.GetByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.Password); err != nil {
		return err
	}
	return s.users.Save(user)
}

// RequestEmailChange mails a confirmation link to the new address.
func (s *AuthService) RequestEmailChange(ctx context.Context, user *model.User, req dto.ChangeEmailReq) error {
	fe := req.Validate()
	email := dto.NormalizeEmail(req.Email)
	if _, bad := fe["email"]; !bad && s.users.IsEmailExist(email, 0) {
		fe.Add("email", "Email already registered.")
	}
	if err := fe.Err(); err != nil {
		return err
	}
	if !user.VerifyPassword(req.Password) {
		return ErrInvalidPassword
	}
	tok, err := s.tokens.GenerateEmailChange(user.ID, email, s.cfg.TokenTTL)
	if err != nil {
		return err
	}
	_, err = s.mail.Send(ctx, email, "Confirm your email address", string(token.PurposeChangeEmail),
		changeEmailText(user.Username, s.link("/auth/change_email/"+tok)))
	return err
}

// ChangeEmail applies a pending address change. It fails with ErrEmailTaken
// when someone registered the address after the link was sent.
func (s *AuthService) ChangeEmail(user *model.User, tok string) error {
	claims, ok := s.tokens.Verify(tok, token.PurposeChangeEmail)
	if !ok || claims.UserID != user.ID || claims.NewEmail == "" {
		return ErrInvalidToken
	}
	email := dto.NormalizeEmail(claims.NewEmail)
	if s.users.IsEmailExist(email, user.ID) {
		return ErrEmailTaken
	}
	user.SetEmail(email)
	return s.users.Save(user)
}

// IssueAPIToken returns a bearer token for user and its lifetime in seconds.
func (s *AuthService) IssueAPIToken(user *model.User) (string, int, error) {
	tok, err := s.tokens.Generate(token.PurposeAuth, user.ID, s.cfg.TokenTTL)
	if err != nil {
		return "", 0, err
	}
	return tok, int(s.cfg.TokenTTL / time.Second), nil
}

func (s *AuthService) UserFromAPIToken(tok string) (*model.User, bool) {
	claims, ok := s.tokens.Verify(tok, token.PurposeAuth)
	if !ok {
		return nil, false
	}
	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, false
	}
	return user, true
}

func (s *AuthService) link(path string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + path
}
