package middleware

import (
	"errors"
	"log"
	"net/http"

	"bitemebuddy/auth"
	"bitemebuddy/services"
	"bitemebuddy/statemachine"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin"
)

// HTTPError is an error a handler wants shown with a specific status
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Status maps an error to the HTTP status and the message safe to show
func Status(err error) (int, string) {
	var httpErr *HTTPError
	var validation *store.ValidationError
	var conflict *store.ConflictError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status, httpErr.Message
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to view this page"
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.As(err, &conflict):
		return http.StatusConflict, conflict.Message
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "The page or record you asked for does not exist"
	case errors.Is(err, services.ErrNotAssigned):
		return http.StatusForbidden, "Order not assigned to you"
	case errors.Is(err, services.ErrNotOutForDelivery):
		return http.StatusBadRequest, "Order is not out for delivery"
	case errors.Is(err, services.ErrInvalidOTP):
		return http.StatusBadRequest, "Invalid or expired OTP"
	case errors.Is(err, services.ErrUnsupportedType):
		return http.StatusBadRequest, "Only JPEG, PNG and GIF images are allowed"
	case errors.Is(err, services.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "The uploaded file is too large"
	case errors.Is(err, statemachine.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	}
	return http.StatusInternalServerError, "Something went wrong on our side. Please try again."
}

// ErrorPages renders the last error a handler attached with c.Error. Browser
// requests get the error page, HTMX requests an alert fragment and bearer
// clients a JSON body. Unknown errors are logged and shown as a 500.
func ErrorPages(appName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, message := Status(err)
		if status >= http.StatusInternalServerError {
			log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}

		switch {
		case IsBearer(c):
			c.JSON(status, gin.H{"error": message})
		case IsHTMX(c):
			c.HTML(status, "alert", gin.H{"Kind": "error", "Message": message})
		default:
			title := http.StatusText(status)
			c.HTML(status, "error.html", gin.H{
				"Title":        title,
				"AppName":      appName,
				"User":         CurrentUser(c),
				"ErrorTitle":   title,
				"ErrorMessage": message,
			})
		}
	}
}
