package db

import (
	"errors"
	"fmt"
	"log"

	"github.com/sundial-dev/sundial/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return nil, err
	}

	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.TimeLog{},
		&models.TimeSheet{},
		&models.ActivityLog{},
	}

	migrator := conn.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := conn.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}

// EnsureSuperAdmin seeds the first super_admin from the environment so a
// fresh database is never locked out. No-op when one already exists.
func EnsureSuperAdmin(conn *gorm.DB, email, password string) error {
	var existing models.User

	err := conn.Where("role = ? AND is_deleted = ?", models.RoleSuperAdmin, false).First(&existing).Error

	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if email == "" || password == "" {
		return fmt.Errorf("no super admin exists and SUPER_ADMIN_EMAIL/SUPER_ADMIN_PASSWORD are not set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	admin := models.User{
		DisplayName: "Super Admin",
		Email:       email,
		Password:    string(hash),
		Role:        models.RoleSuperAdmin,
	}

	if err := conn.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded super admin %s", email)

	return nil
}
