package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/todolist-api/database"
	"github.com/biosecret/todolist-api/middleware"
	"github.com/biosecret/todolist-api/models"
)

const (
	msgWrongPassword  = "Current password isn't correct."
	msgDeleteSelf     = "Can't delete current user."
	credentialsField  = "email or password"
	unprocessableText = "Unprocessable Entity"
)

func (h *Handler) authPayload(user *models.User) (models.AuthPayload, error) {
	token, err := h.tokens.Issue(user.ID, user.FullName)
	if err != nil {
		return models.AuthPayload{}, err
	}
	return user.AuthPayload(token), nil
}

func bindUser(c *fiber.Ctx) (*userInput, error) {
	var req userRequest
	if err := bindBody(c, models.UserSchema, &req); err != nil {
		return nil, err
	}
	if req.User == nil {
		return &userInput{}, nil
	}
	return req.User, nil
}

// looseUser picks the string fields out of a body that failed the schema, so
// the remaining checks can still report on them. Anything else reads as unset.
func looseUser(body []byte) *userInput {
	var req struct {
		User map[string]interface{} `json:"user"`
	}
	in := &userInput{}
	if err := json.Unmarshal(body, &req); err != nil {
		return in
	}
	field := func(key string) *string {
		if s, ok := req.User[key].(string); ok {
			return &s
		}
		return nil
	}
	in.FullName = field("fullname")
	in.Email = field("email")
	in.Password = field("password")
	in.CurrentPassword = field("currentPassword")
	return in
}

// merge folds a validation failure into v and passes any other error through.
func merge(v *models.ValidationError, err error) error {
	if err == nil {
		return nil
	}
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	v.Merge(ve)
	return nil
}

// Register godoc
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  userRequest  true  "fullname, email and password"
// @Success      200  {object}  userResponse
// @Failure      422  {object}  middleware.ErrorEnvelope
// @Router       /users [post]
func (h *Handler) Register(c *fiber.Ctx) error {
	v := models.NewValidationError()
	in, err := bindUser(c)
	if err := merge(v, err); err != nil {
		return err
	}
	if in == nil {
		in = looseUser(c.Body())
	}

	user := &models.User{
		FullName: value(in.FullName),
		Email:    models.NormalizeEmail(value(in.Email)),
	}

	if user.Email != "" {
		_, err := h.store.FindUserByEmail(c.UserContext(), user.Email)
		switch {
		case err == nil:
			v.Add("email", models.MsgTaken)
		case !errors.Is(err, database.ErrNotFound):
			return err
		}
	}
	if err := merge(v, user.Validate()); err != nil {
		return err
	}
	if value(in.Password) == "" {
		v.Add("password", models.MsgBlank)
	}
	if !v.Empty() {
		return v
	}

	if err := user.SetPassword(*in.Password); err != nil {
		return err
	}

	err = h.store.CreateUser(c.UserContext(), user)
	var dup *database.DuplicateKeyError
	if errors.As(err, &dup) {
		return models.FieldError(dup.Field, models.MsgTaken)
	}
	if err != nil {
		return err
	}

	payload, err := h.authPayload(user)
	if err != nil {
		return err
	}
	return c.JSON(userResponse{User: payload})
}

// Login godoc
// @Summary      Exchange credentials for a token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  userRequest  true  "email and password"
// @Success      200  {object}  userResponse
// @Failure      422  {object}  middleware.ErrorEnvelope
// @Router       /users/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	in, err := bindUser(c)
	if err != nil {
		return err
	}

	v := models.NewValidationError()
	if value(in.Email) == "" {
		v.Add("email", models.MsgBlank)
	}
	if value(in.Password) == "" {
		v.Add("password", models.MsgBlank)
	}
	if !v.Empty() {
		return v
	}

	user, err := h.store.FindUserByEmail(c.UserContext(), models.NormalizeEmail(*in.Email))
	if errors.Is(err, database.ErrNotFound) {
		return models.FieldError(credentialsField, models.MsgInvalid)
	}
	if err != nil {
		return err
	}
	if !user.ValidPassword(*in.Password) {
		return models.FieldError(credentialsField, models.MsgInvalid)
	}

	payload, err := h.authPayload(user)
	if err != nil {
		return err
	}
	return c.JSON(userResponse{User: payload})
}

// CurrentUser godoc
// @Summary      Get the authenticated user with a fresh token
// @Tags         users
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  middleware.ErrorEnvelope
// @Failure      403
// @Security     Token
// @Router       /user [get]
func (h *Handler) CurrentUser(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	payload, err := h.authPayload(user)
	if err != nil {
		return err
	}
	return c.JSON(userResponse{User: payload})
}

// UpdateCurrentUser godoc
// @Summary      Change the authenticated user's name or password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  userRequest  true  "currentPassword plus fullname and/or password"
// @Success      200  {object}  userResponse
// @Failure      422  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /user [put]
func (h *Handler) UpdateCurrentUser(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	in, err := bindUser(c)
	if err != nil {
		return err
	}

	if value(in.CurrentPassword) == "" {
		return models.FieldError("currentPassword", models.MsgBlank)
	}
	if !user.ValidPassword(*in.CurrentPassword) {
		return models.FieldError("currentPassword", msgWrongPassword)
	}

	v := models.NewValidationError()
	if in.FullName != nil {
		if *in.FullName == "" {
			v.Add("fullname", models.MsgBlank)
		} else {
			user.FullName = *in.FullName
		}
	}
	if in.Password != nil {
		if *in.Password == "" {
			v.Add("password", models.MsgBlank)
		} else if err := user.SetPassword(*in.Password); err != nil {
			return err
		}
	}
	if !v.Empty() {
		return v
	}

	if err := h.store.UpdateUser(c.UserContext(), user); err != nil {
		return err
	}

	payload, err := h.authPayload(user)
	if err != nil {
		return err
	}
	return c.JSON(userResponse{Status: "updated", User: payload})
}

// DeleteUser godoc
// @Summary      Delete another user with their todo lists
// @Tags         users
// @Param        userId  path  string  true  "user id"
// @Success      204
// @Failure      404  {object}  middleware.ErrorEnvelope
// @Failure      422  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /user/{userId} [delete]
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return fiber.ErrForbidden
	}

	target, err := h.store.FindUserByID(c.UserContext(), c.Params("userId"))
	if errors.Is(err, database.ErrNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		return err
	}

	if target.ID == uid {
		v := models.FieldError("user", msgDeleteSelf)
		v.Message = unprocessableText
		return v
	}

	if err := h.store.DeleteUser(c.UserContext(), target.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
