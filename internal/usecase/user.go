package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adrianoneco/userdir/internal/activity"
	"github.com/adrianoneco/userdir/internal/auth"
	"github.com/adrianoneco/userdir/internal/domain"
	"github.com/adrianoneco/userdir/internal/metrics"
	"github.com/adrianoneco/userdir/internal/objectstore"
	"github.com/adrianoneco/userdir/internal/repository"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	BirthDay  string
	Email     string
	Password  string
}

// AvatarUpload carries an optional image from a multipart request.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CreateUserInput struct {
	FirstName string
	LastName  string
	BirthDay  string
	Email     string
	Password  string
	Avatar    *AvatarUpload
}

// UpdateUserInput is a partial field set: nil leaves the stored value
// untouched.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	BirthDay  *string
	Email     *string
	Password  *string
	Avatar    *AvatarUpload
}

// UserUsecase orchestrates registration, login, and the authenticated
// user CRUD against the repository, token service, object store, and
// activity log. The repository write is the only critical step of any
// operation; avatar uploads and activity appends degrade, never abort.
type UserUsecase struct {
	users    repository.UserRepository
	tokens   *auth.TokenService
	store    objectstore.Uploader
	activity activity.Recorder
	logger   *slog.Logger
}

func NewUserUsecase(
	users repository.UserRepository,
	tokens *auth.TokenService,
	store objectstore.Uploader,
	recorder activity.Recorder,
	logger *slog.Logger,
) *UserUsecase {
	return &UserUsecase{
		users:    users,
		tokens:   tokens,
		store:    store,
		activity: recorder,
		logger:   logger.With("component", "user_usecase"),
	}
}

// Register creates an account. It deliberately returns no token: the
// caller logs in as a second step.
func (u *UserUsecase) Register(ctx context.Context, in RegisterInput) error {
	if err := u.checkEmailFree(ctx, in.Email); err != nil {
		return err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, repository.CreateUserParams{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		BirthDay:  in.BirthDay,
		Email:     in.Email,
		Password:  hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	u.record(ctx, domain.ActivityEntry{
		UserID:  user.ID,
		Action:  domain.ActionUserRegistered,
		Details: map[string]any{"email": user.Email},
	})
	return nil
}

// Login returns the public projection and a signed token. Unknown email
// and wrong password collapse into the same error so the response leaks
// nothing about which one it was.
func (u *UserUsecase) Login(ctx context.Context, email, password string) (*domain.PublicUser, string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	pub := user.Public()
	token, err := u.tokens.Issue(pub)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	u.record(ctx, domain.ActivityEntry{
		UserID:  user.ID,
		Action:  domain.ActionUserLogin,
		Details: map[string]any{"email": user.Email},
	})
	return &pub, token, nil
}

// CreateUser is the authenticated variant of Register: same validation
// and uniqueness rules, plus an optional avatar.
func (u *UserUsecase) CreateUser(ctx context.Context, actorID string, in CreateUserInput) (*domain.PublicUser, error) {
	if err := u.checkEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	avatarURL := u.uploadAvatar(ctx, in.Avatar)

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, repository.CreateUserParams{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		BirthDay:  in.BirthDay,
		Email:     in.Email,
		Password:  hash,
		AvatarURL: avatarURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	u.record(ctx, domain.ActivityEntry{
		UserID:  actorID,
		Action:  domain.ActionUserCreated,
		Details: map[string]any{"newUserId": user.ID, "email": user.Email},
	})

	pub := user.Public()
	return &pub, nil
}

func (u *UserUsecase) UpdateUser(ctx context.Context, actorID, id string, in UpdateUserInput) (*domain.PublicUser, error) {
	existing, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if in.Email != nil && *in.Email != existing.Email {
		if err := u.checkEmailFree(ctx, *in.Email); err != nil {
			return nil, err
		}
	}

	params := repository.UpdateUserParams{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		BirthDay:  in.BirthDay,
		Email:     in.Email,
	}

	// A blank password means "keep the current one", never an empty hash.
	if in.Password != nil && strings.TrimSpace(*in.Password) != "" {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		params.Password = &hash
	}

	params.AvatarURL = u.uploadAvatar(ctx, in.Avatar)

	// Nothing survived the filtering: return the record as-is, no write.
	if params.Empty() {
		pub := existing.Public()
		return &pub, nil
	}

	updated, err := u.users.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	u.record(ctx, domain.ActivityEntry{
		UserID:  actorID,
		Action:  domain.ActionUserUpdated,
		Details: map[string]any{"updatedUserId": id},
	})

	pub := updated.Public()
	return &pub, nil
}

func (u *UserUsecase) DeleteUser(ctx context.Context, actorID, id string) error {
	if err := u.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	u.record(ctx, domain.ActivityEntry{
		UserID:  actorID,
		Action:  domain.ActionUserDeleted,
		Details: map[string]any{"deletedUserId": id},
	})
	return nil
}

func (u *UserUsecase) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := u.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	public := make([]domain.PublicUser, 0, len(users))
	for _, user := range users {
		public = append(public, user.Public())
	}
	return public, nil
}

func (u *UserUsecase) GetUser(ctx context.Context, id string) (*domain.PublicUser, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	pub := user.Public()
	return &pub, nil
}

// RecentActivity reads the bounded recent window. A sink failure is
// logged and yields an empty window instead of an error: the log is
// non-critical on the read side too.
func (u *UserUsecase) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	entries, err := u.activity.Recent(ctx, limit)
	if err != nil {
		u.logger.ErrorContext(ctx, "read activity log", "error", err)
		return []domain.ActivityEntry{}, nil
	}
	return entries, nil
}

// checkEmailFree is the best-effort pre-check; the store's unique
// constraint remains the authority under concurrency.
func (u *UserUsecase) checkEmailFree(ctx context.Context, email string) error {
	_, err := u.users.FindByEmail(ctx, email)
	if err == nil {
		return domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// uploadAvatar pushes the blob to object storage and returns its key,
// or nil when there is no avatar or the upload failed. The failure is
// logged and counted; the surrounding mutation proceeds without it.
func (u *UserUsecase) uploadAvatar(ctx context.Context, avatar *AvatarUpload) *string {
	if avatar == nil {
		return nil
	}

	key := objectstore.AvatarKey(avatar.Filename)
	err := u.store.Upload(ctx, key, avatar.ContentType, bytes.NewReader(avatar.Data), int64(len(avatar.Data)))
	if err != nil {
		u.logger.ErrorContext(ctx, "avatar upload failed, continuing without avatar", "key", key, "error", err)
		metrics.AvatarUploadsTotal.WithLabelValues("error").Inc()
		return nil
	}

	metrics.AvatarUploadsTotal.WithLabelValues("ok").Inc()
	return &key
}

func (u *UserUsecase) record(ctx context.Context, entry domain.ActivityEntry) {
	if err := u.activity.Record(ctx, entry); err != nil {
		u.logger.ErrorContext(ctx, "record activity", "action", entry.Action, "error", err)
		metrics.ActivityAppendsTotal.WithLabelValues("error").Inc()
		return
	}
	metrics.ActivityAppendsTotal.WithLabelValues("ok").Inc()
}
