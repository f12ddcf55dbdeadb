package handlers

import (
	"errors"
	"reflect"
	"regexp"

	"bitemebuddy/models"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?[0-9\s\-\(\)]{10,20}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// RegisterValidators adds the phone and username rules to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

type LoginForm struct {
	Username string          `form:"username" binding:"required"`
	Password string          `form:"password" binding:"required"`
	Role     models.UserRole `form:"role"`
}

type RegisterForm struct {
	Name            string `form:"name" binding:"required,min=2,max=100"`
	Username        string `form:"username" binding:"required,min=3,max=50,username"`
	Email           string `form:"email" binding:"required,email"`
	Phone           string `form:"phone" binding:"required,phone"`
	Address         string `form:"address" binding:"required"`
	Password        string `form:"password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

type TeamMemberForm struct {
	Name     string `form:"name" binding:"required,min=2,max=100"`
	Username string `form:"username" binding:"required,min=3,max=50,username"`
	Email    string `form:"email" binding:"required,email"`
	Phone    string `form:"phone" binding:"required,phone"`
	Password string `form:"password" binding:"required,min=6"`
}

type ServiceForm struct {
	Name        string `form:"name" binding:"required,min=2,max=100"`
	Description string `form:"description"`
}

type MenuItemForm struct {
	Name        string `form:"name" binding:"required,min=2,max=100"`
	Description string `form:"description"`
	Price       string `form:"price" binding:"required"`
}

type PlanForm struct {
	TeamMemberID uint   `form:"team_member_id" binding:"required"`
	Description  string `form:"description" binding:"required"`
}

type CartForm struct {
	MenuItemID uint `form:"menu_item_id" binding:"required"`
	Quantity   int  `form:"quantity" binding:"min=0,max=99"`
}

type CheckoutForm struct {
	Address string `form:"address" binding:"required,min=5"`
	Notes   string `form:"notes"`
}

type AssignForm struct {
	TeamMemberID uint `form:"team_member_id" binding:"required"`
}

type StatusForm struct {
	Status models.OrderStatus `form:"status" binding:"required"`
	Reason string             `form:"reason"`
}

type OTPForm struct {
	OTP string `form:"otp" binding:"required,len=4,numeric"`
}

var fieldLabels = map[string]string{
	"ConfirmPassword": "Confirm password",
	"TeamMemberID":    "Team member",
	"MenuItemID":      "Menu item",
	"OTP":             "OTP",
}

// formError turns a binding failure into a *store.ValidationError carrying
// a message for the first failing field
func formError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return store.Invalid("form", "Invalid form submission")
	}
	fe := verrs[0]
	return store.Invalid(fe.Field(), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return label + " must be at least " + fe.Param() + " characters"
		}
		return label + " must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return label + " must be at most " + fe.Param() + " characters"
		}
		return label + " must be at most " + fe.Param()
	case "email":
		return "Invalid email address"
	case "phone":
		return "Invalid phone number"
	case "username":
		return "Username can only contain letters, numbers and underscores"
	case "eqfield":
		return "Passwords do not match"
	case "len":
		return label + " must be " + fe.Param() + " characters long"
	case "numeric":
		return label + " must contain only digits"
	}
	return label + " is invalid"
}

// message extracts the user-facing text of a validation or conflict error
func message(err error) (string, bool) {
	var validation *store.ValidationError
	var conflict *store.ConflictError
	switch {
	case errors.As(err, &validation):
		return validation.Message, true
	case errors.As(err, &conflict):
		return conflict.Message, true
	}
	return "", false
}
