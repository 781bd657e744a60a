package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"workboard/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB(cfg Config) error {
	if cfg.DBDSN == "" {
		return fmt.Errorf("DB_DSN is not set; this service requires a Postgres DSN")
	}

	var err error
	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
		if err == nil {
			break
		}
		logger.Warnw("db connect failed, retrying", "attempt", i, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("connect postgres after %d attempts: %w", maxAttempts, err)
	}

	if cfg.DBAutoMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		for _, m := range []any{
			&models.User{},
			&models.Profile{},
			&models.RefreshToken{},
			&models.Project{},
			&models.Task{},
			&models.CalendarNote{},
			&models.ContentLog{},
			&models.LiveSessionLog{},
			&models.Template{},
			&models.ActivityLog{},
		} {
			if err := db.AutoMigrate(m); err != nil {
				logger.Warnw("migration warning", "model", fmt.Sprintf("%T", m), "error", err)
			}
		}
		if err := ensureOwnerConstraints(); err != nil {
			logger.Warnw("ensuring owner FK constraints failed", "error", err)
		}
	}

	return seedDB(cfg)
}

// ensureOwnerConstraints wires the cascade semantics AutoMigrate does not
// cover: deleting a user removes every row they own, deleting a project
// removes its tasks, while templates and task assignments merely lose the
// reference (SET NULL) instead of disappearing.
func ensureOwnerConstraints() error {
	type fk struct {
		table, name, column, refTable, onDelete string
	}
	fks := []fk{
		{"projects", "fk_projects_owner", "owner_id", "users", "CASCADE"},
		{"tasks", "fk_tasks_owner", "owner_id", "users", "CASCADE"},
		{"tasks", "fk_tasks_assignee", "assigned_to", "users", "SET NULL"},
		{"tasks", "fk_tasks_project", "project_id", "projects", "CASCADE"},
		{"calendar_notes", "fk_calendar_notes_owner", "owner_id", "users", "CASCADE"},
		{"content_logs", "fk_content_logs_owner", "owner_id", "users", "CASCADE"},
		{"live_session_logs", "fk_live_session_logs_owner", "owner_id", "users", "CASCADE"},
		{"templates", "fk_templates_uploader", "uploaded_by", "users", "SET NULL"},
		{"activity_logs", "fk_activity_logs_owner", "owner_id", "users", "CASCADE"},
		{"refresh_tokens", "fk_refresh_tokens_user", "user_id", "users", "CASCADE"},
	}
	for _, f := range fks {
		var n int
		check := `SELECT count(*) FROM pg_constraint ct
			JOIN pg_class rel ON rel.oid = ct.conrelid
			WHERE rel.relname = ? AND ct.conname = ?`
		if err := db.Raw(check, f.table, f.name).Scan(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		stmt := fmt.Sprintf(`ALTER TABLE %s ADD CONSTRAINT %s
			FOREIGN KEY (%s) REFERENCES %s(id)
			ON UPDATE CASCADE ON DELETE %s`,
			f.table, f.name, f.column, f.refTable, f.onDelete)
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedDB guarantees an admin account exists so roles can be managed at all.
func seedDB(cfg Config) error {
	email := cfg.AdminEmail
	if email == "" {
		email = "admin@workboard.local"
	}
	password := cfg.AdminPassword
	if password == "" {
		password = "admin123"
	}

	var count int64
	if err := db.Model(&models.Profile{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{Email: email, HashedPassword: hash}
	if err := db.Create(&admin).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil
		}
		return err
	}
	profile := models.Profile{UserID: admin.ID, Name: "Administrator", Role: models.RoleAdmin}
	if err := db.Create(&profile).Error; err != nil {
		return err
	}
	logger.Infow("seeded admin user", "email", email)
	return nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}

// recordActivity appends to the audit trail. Best effort: a failed audit
// write never fails the request that caused it.
func recordActivity(ctx context.Context, userID uint, action string) {
	if db == nil || userID == 0 {
		return
	}
	entry := models.ActivityLog{OwnerID: userID, Action: action}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		logger.Warnw("activity log write failed", "user", userID, "error", err)
	}
}
