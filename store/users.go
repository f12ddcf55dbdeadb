package store

import (
	"context"
	"errors"
	"strings"

	"bitemebuddy/auth"
	"bitemebuddy/models"

	"gorm.io/gorm"
)

type NewUser struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Password string
	Address  string
	Role     models.UserRole
}

// CreateUser hashes the password and inserts the user. Taken usernames,
// emails and phones are reported as *ConflictError.
func (s *Store) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, Invalid("role", "Invalid role")
	}
	db := s.conn(ctx)

	taken := func(column, value string) (bool, error) {
		var n int64
		err := db.Model(&models.User{}).Where(column+" = ?", value).Count(&n).Error
		return n > 0, err
	}
	checks := []struct {
		column, value, message string
	}{
		{"username", in.Username, "Username already exists"},
		{"email", in.Email, "Email already registered"},
		{"phone", in.Phone, "Phone number already registered"},
	}
	for _, c := range checks {
		exists, err := taken(c.column, c.value)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, conflict(c.message)
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Address:      strings.TrimSpace(in.Address),
		Role:         in.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, conflict("User with these details already exists")
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate returns the user when username and password match
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ListUsers returns users of role ordered by name
func (s *Store) ListUsers(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := s.conn(ctx).Where("role = ?", role).Order("name asc").Find(&users).Error
	return users, err
}

// CountUsersByRole returns how many users there are per role
func (s *Store) CountUsersByRole(ctx context.Context) (map[models.UserRole]int64, error) {
	var rows []struct {
		Role  models.UserRole
		Total int64
	}
	err := s.conn(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.UserRole]int64, len(rows))
	for _, r := range rows {
		counts[r.Role] = r.Total
	}
	return counts, nil
}

// DeleteUser removes a user of the given role and everything they own:
// orders placed as customer (with their items), sessions and plans.
// Orders that were only assigned to the user are kept and unassigned.
func (s *Store) DeleteUser(ctx context.Context, id uint, role models.UserRole) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ? AND role = ?", id, role).First(&user).Error; err != nil {
			return notFound(err)
		}

		if err := tx.Model(&models.Order{}).
			Where("assigned_to = ?", id).
			Update("assigned_to", nil).Error; err != nil {
			return err
		}

		customerOrders := tx.Model(&models.Order{}).Select("id").Where("customer_id = ?", id)
		if err := deleteOrders(tx, customerOrders); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.UserSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_member_id = ? OR admin_id = ?", id, id).Delete(&models.TeamMemberPlan{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// deleteOrders removes the orders selected by ids together with their
// items and status history.
func deleteOrders(tx *gorm.DB, ids *gorm.DB) error {
	if err := tx.Where("order_id IN (?)", ids).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id IN (?)", ids).Delete(&models.OrderStatusHistory{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN (?)", ids).Delete(&models.Order{}).Error
}
