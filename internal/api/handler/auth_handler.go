package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonexchange/anonexchange-api/internal/core/domain"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

// AuthHandler handles sign-up, verification, login, and the public
// username-uniqueness check.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp registers a new account and sends the verification code by email.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  signUpResponse
// @Failure      400   {object}  apiResponse
// @Failure      500   {object}  apiResponse
// @Router       /api/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !domain.ValidUsername(req.Username) {
		return echo.NewHTTPError(http.StatusBadRequest, "username may only contain letters, digits and underscores")
	}

	result, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, signUpResponse{
		Success:  true,
		Message:  "user registered, please verify your email",
		Username: result.Username,
	})
}

// VerifyCode confirms email ownership with the one-time code.
//
// @Summary      Verify an account with the emailed code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyCodeRequest  true  "Username and code"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      404   {object}  apiResponse
// @Router       /api/verify-code [post]
func (h *AuthHandler) VerifyCode(c echo.Context) error {
	var req verifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.VerifyCode(c.Request().Context(), req.Username, req.Code); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apiResponse{Success: true, Message: "account verified successfully"})
}

// SignIn authenticates by username or email and returns a session token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      401   {object}  apiResponse
// @Failure      403   {object}  apiResponse
// @Failure      404   {object}  apiResponse
// @Router       /api/sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.SignIn(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, signInResponse{
		Success: true,
		Message: "signed in",
		Token:   token,
		User: &userResponse{
			ID:                  user.ID.Hex(),
			Username:            user.Username,
			Email:               user.Email,
			IsVerified:          user.IsVerified,
			IsAcceptingMessages: user.IsAcceptingMessages,
		},
	})
}

// CheckUsernameUnique reports whether a username is free among verified users.
//
// @Summary      Check username availability
// @Tags         auth
// @Produce      json
// @Param        username  query     string  true  "Username to check"
// @Success      200       {object}  apiResponse
// @Failure      400       {object}  apiResponse
// @Router       /api/check-username-unique [get]
func (h *AuthHandler) CheckUsernameUnique(c echo.Context) error {
	username := c.QueryParam("username")
	if !domain.ValidUsername(username) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameter")
	}

	unique, err := h.authService.CheckUsername(c.Request().Context(), username)
	if err != nil {
		return err
	}
	if !unique {
		return c.JSON(http.StatusBadRequest, apiResponse{Success: false, Message: "username already exists"})
	}

	return c.JSON(http.StatusOK, apiResponse{Success: true, Message: "username is unique"})
}
