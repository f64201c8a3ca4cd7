package repository

import (
	"context"
	"strings"
	"time"

	"rideshare/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB {
	return r.db
}

// WithTx returns a repository bound to an open transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Create inserts the user together with its profile.
func (r *UserRepository) Create(ctx context.Context, u *domain.User, p *domain.Profile) error {
	m := userModel{
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         string(u.Role),
		IsActive:     true,
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			if IsUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		u.ID = m.ID
		u.Email = m.Email
		u.IsActive = m.IsActive
		u.CreatedAt = m.CreatedAt
		u.UpdatedAt = m.UpdatedAt

		if p == nil {
			return nil
		}
		p.UserID = m.ID
		if p.Role == "" {
			p.Role = u.Role
		}
		pm := toProfileModel(p)
		if err := tx.Create(&pm).Error; err != nil {
			return err
		}
		p.ID = pm.ID
		p.CreatedAt = pm.CreatedAt
		p.UpdatedAt = pm.UpdatedAt
		if p.Rating == 0 {
			p.Rating = domain.DefaultProfileRating
		}
		u.Profile = p
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Preload("Profile").First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainUser(&m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return toDomainUser(&m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// UpdateProfile writes the editable profile fields. Empty strings clear a field.
func (r *UserRepository) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	m := toProfileModel(p)
	res := r.db.WithContext(ctx).
		Model(&profileModel{}).
		Where("user_id = ?", p.UserID).
		Updates(map[string]any{
			"phone_number":         m.PhoneNumber,
			"bio":                  m.Bio,
			"vehicle_model":        m.VehicleModel,
			"vehicle_plate_number": m.VehiclePlate,
			"vehicle_seats":        m.VehicleSeats,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateNames(ctx context.Context, userID int64, firstName, lastName string) error {
	return r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"first_name": firstName, "last_name": lastName}).Error
}

func (r *UserRepository) CountByRole(ctx context.Context) (map[domain.UserRole]int64, error) {
	var rows []struct {
		Role  string
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.UserRole]int64, len(rows))
	for _, row := range rows {
		out[domain.UserRole(row.Role)] = row.Total
	}
	return out, nil
}

func (r *UserRepository) RoleOf(ctx context.Context, userID int64) (domain.UserRole, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Select("id", "role").First(&m, userID).Error; err != nil {
		return "", notFound(err)
	}
	return domain.UserRole(m.Role), nil
}

// List pages through users, newest first, optionally filtered by role.
func (r *UserRepository) List(ctx context.Context, role domain.UserRole, limit, offset int) ([]domain.User, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&userModel{})
		if role != "" {
			q = q.Where("role = ?", string(role))
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []userModel
	if err := scope().Preload("Profile").Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.User, 0, len(rows))
	for i := range rows {
		out = append(out, *toDomainUser(&rows[i]))
	}
	return out, total, nil
}

func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
