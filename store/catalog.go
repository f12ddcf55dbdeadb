package store

import (
	"context"
	"strings"

	"bitemebuddy/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ServiceInput struct {
	Name        string
	Description string
	ImageURL    string
}

func (in ServiceInput) validate() error {
	if n := len(strings.TrimSpace(in.Name)); n < 2 || n > 100 {
		return Invalid("name", "Name must be between 2 and 100 characters")
	}
	return nil
}

func (s *Store) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	service := models.Service{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    in.ImageURL,
	}
	if err := s.conn(ctx).Create(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// GetService loads a service, optionally with its menu ordered by name
func (s *Store) GetService(ctx context.Context, id uint, withMenu bool) (*models.Service, error) {
	q := s.conn(ctx)
	if withMenu {
		q = q.Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("name asc")
		})
	}
	var service models.Service
	if err := q.First(&service, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &service, nil
}

func (s *Store) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := s.conn(ctx).Order("name asc").Find(&services).Error
	return services, err
}

// UpdateService overwrites name and description; an empty ImageURL keeps the
// current image.
func (s *Store) UpdateService(ctx context.Context, id uint, in ServiceInput) (*models.Service, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	service, err := s.GetService(ctx, id, false)
	if err != nil {
		return nil, err
	}
	service.Name = strings.TrimSpace(in.Name)
	service.Description = strings.TrimSpace(in.Description)
	if in.ImageURL != "" {
		service.ImageURL = in.ImageURL
	}
	if err := s.conn(ctx).Save(service).Error; err != nil {
		return nil, err
	}
	return service, nil
}

// DeleteService removes the service with its menu items and the orders
// placed against it. The deleted row is returned so its image can be removed.
func (s *Store) DeleteService(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&service, id).Error; err != nil {
			return notFound(err)
		}
		orders := tx.Model(&models.Order{}).Select("id").Where("service_id = ?", id)
		if err := deleteOrders(tx, orders); err != nil {
			return err
		}
		menu := tx.Model(&models.MenuItem{}).Select("id").Where("service_id = ?", id)
		if err := tx.Model(&models.OrderItem{}).
			Where("menu_item_id IN (?)", menu).
			Update("menu_item_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&service).Error
	})
	if err != nil {
		return nil, err
	}
	return &service, nil
}

type MenuItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
}

func (in MenuItemInput) validate() error {
	if n := len(strings.TrimSpace(in.Name)); n < 2 || n > 100 {
		return Invalid("name", "Name must be between 2 and 100 characters")
	}
	if !in.Price.Round(2).IsPositive() {
		return Invalid("price", "Price must be greater than 0")
	}
	return nil
}

func (s *Store) CreateMenuItem(ctx context.Context, serviceID uint, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetService(ctx, serviceID, false); err != nil {
		return nil, err
	}
	item := models.MenuItem{
		ServiceID:   serviceID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		ImageURL:    in.ImageURL,
	}
	if err := s.conn(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.conn(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *Store) ListMenuItems(ctx context.Context, serviceID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.conn(ctx).Where("service_id = ?", serviceID).Order("name asc").Find(&items).Error
	return items, err
}

// MenuItemsByID fetches the requested ids of one service in one query; ids
// that are unknown or belong to another service are absent from the result.
func (s *Store) MenuItemsByID(ctx context.Context, serviceID uint, ids []uint) (map[uint]models.MenuItem, error) {
	out := make(map[uint]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.MenuItem
	if err := s.conn(ctx).Where("service_id = ? AND id IN ?", serviceID, ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ID] = item
	}
	return out, nil
}

// UpdateMenuItem changes the current price and details. Existing orders keep
// the price they were placed at.
func (s *Store) UpdateMenuItem(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Description = strings.TrimSpace(in.Description)
	item.Price = in.Price.Round(2)
	if in.ImageURL != "" {
		item.ImageURL = in.ImageURL
	}
	if err := s.conn(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteMenuItem removes the item; order lines that referenced it keep their
// name and price snapshot.
func (s *Store) DeleteMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Model(&models.OrderItem{}).
			Where("menu_item_id = ?", id).
			Update("menu_item_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
