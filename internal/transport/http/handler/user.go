package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/adrianoneco/userdir/internal/auth"
	"github.com/adrianoneco/userdir/internal/domain"
	"github.com/adrianoneco/userdir/internal/usecase"
	"github.com/gin-gonic/gin"
)

type userUsecaser interface {
	CreateUser(ctx context.Context, actorID string, in usecase.CreateUserInput) (*domain.PublicUser, error)
	UpdateUser(ctx context.Context, actorID, id string, in usecase.UpdateUserInput) (*domain.PublicUser, error)
	DeleteUser(ctx context.Context, actorID, id string) error
	ListUsers(ctx context.Context) ([]domain.PublicUser, error)
	GetUser(ctx context.Context, id string) (*domain.PublicUser, error)
}

type UserHandler struct {
	users  userUsecaser
	logger *slog.Logger
}

func NewUserHandler(users userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With("component", "user_handler"),
	}
}

type createUserForm struct {
	FirstName string `form:"firstName" binding:"required"`
	LastName  string `form:"lastName"  binding:"required"`
	BirthDay  string `form:"birthDay"  binding:"required"`
	Email     string `form:"email"     binding:"required,email"`
	Password  string `form:"password"  binding:"required,min=6"`
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get user", "user_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, user)
}

// POST /api/users accepts a multipart form with an optional "avatar" file.
func (h *UserHandler) Create(c *gin.Context) {
	var form createUserForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": errAllFieldsRequired})
		return
	}

	avatar, err := readAvatar(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), actorID(c), usecase.CreateUserInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		BirthDay:  form.BirthDay,
		Email:     form.Email,
		Password:  form.Password,
		Avatar:    avatar,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": errEmailTaken})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// PUT /api/users/:id accepts a multipart form; every field is optional and blank
// values are treated as absent.
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	in := usecase.UpdateUserInput{
		FirstName: formValue(c, "firstName"),
		LastName:  formValue(c, "lastName"),
		BirthDay:  formValue(c, "birthDay"),
		Email:     formValue(c, "email"),
		Password:  formValue(c, "password"),
	}

	avatar, err := readAvatar(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	in.Avatar = avatar

	user, err := h.users.UpdateUser(c.Request.Context(), actorID(c), id, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": errUserNotFound})
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": errEmailTaken})
		default:
			h.logger.ErrorContext(c.Request.Context(), "update user", "user_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.users.DeleteUser(c.Request.Context(), actorID(c), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete user", "user_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgUserDeleted})
}

// actorID returns the authenticated caller's id. The auth middleware
// guarantees claims are present on protected routes.
func actorID(c *gin.Context) string {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		return ""
	}
	return claims.UserID
}

func formValue(c *gin.Context, name string) *string {
	v := c.PostForm(name)
	if v == "" {
		return nil
	}
	return &v
}

func readAvatar(c *gin.Context) (*usecase.AvatarUpload, error) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &usecase.AvatarUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
