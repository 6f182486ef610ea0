package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.blogger/internal/model"
)

const (
	registeredMessage         = "User registered successfully. Please log in."
	invalidCredentialsMessage = "Invalid username or password."
)

func ShowRegister() echo.HandlerFunc {
	return func(c echo.Context) error {
		return render(c, http.StatusOK, "register.html", nil)
	}
}

func Register(authService AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.RegisterParams{}
		if err := c.Bind(params); err != nil {
			return err
		}

		account, err := authService.Register(c.Request().Context(), params)
		if err != nil {
			message, ok := registerFailure(err)
			if !ok {
				authAttempts.WithLabelValues("register", "error").Inc()
				return err
			}
			authAttempts.WithLabelValues("register", "rejected").Inc()
			c.Logger().Warnf("registration rejected: %v", err)
			return render(c, http.StatusOK, "register.html", map[string]any{
				"Error":    message,
				"Username": params.Username,
				"Email":    params.Email,
			})
		}

		authAttempts.WithLabelValues("register", "success").Inc()
		c.Logger().Infof("registered account %d", account.ID)
		return render(c, http.StatusOK, "login.html", map[string]any{
			"Success": registeredMessage,
		})
	}
}

// registerFailure turns a rejected registration into the message shown on
// the form. Errors that are not the visitor's to fix are not handled.
func registerFailure(err error) (string, bool) {
	var dup *model.DuplicateIdentityError
	switch {
	case errors.As(err, &dup):
		var fields []string
		if dup.Username {
			fields = append(fields, "Username")
		}
		if dup.Email {
			fields = append(fields, "Email")
		}
		return strings.Join(fields, " and ") + " already registered.", true
	case errors.Is(err, model.ErrorMissingField):
		return "Username, email and password are required.", true
	case errors.Is(err, model.ErrorPasswordTooLong):
		return "Password must be at most 72 bytes.", true
	}
	return "", false
}

func ShowLogin() echo.HandlerFunc {
	return func(c echo.Context) error {
		return render(c, http.StatusOK, "login.html", nil)
	}
}

func Login(authService AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &model.LoginParams{}
		if err := c.Bind(params); err != nil {
			return err
		}

		session, err := authService.Authenticate(c.Request().Context(), params)
		if errors.Is(err, model.ErrorInvalidCredentials) {
			authAttempts.WithLabelValues("login", "rejected").Inc()
			c.Logger().Warnf("failed login for %q", params.Username)
			return render(c, http.StatusOK, "login.html", map[string]any{
				"Error":    invalidCredentialsMessage,
				"Username": params.Username,
			})
		}
		if err != nil {
			authAttempts.WithLabelValues("login", "error").Inc()
			return err
		}

		if err := saveSession(c, session); err != nil {
			return err
		}
		authAttempts.WithLabelValues("login", "success").Inc()
		return redirect(c, "/")
	}
}

func Logout(authService AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := saveSession(c, authService.Logout(loadSession(c))); err != nil {
			return err
		}
		authAttempts.WithLabelValues("logout", "success").Inc()
		return redirect(c, "/")
	}
}
