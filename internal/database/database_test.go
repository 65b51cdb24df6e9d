package database

import (
	"testing"

	"github.com/gdg-garage/memorial-api/internal/config"
	"github.com/gdg-garage/memorial-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLite(t *testing.T) {
	db, err := Connect(&config.Config{DatabaseDriver: "sqlite", DatabasePath: ":memory:"})
	require.NoError(t, err)

	require.True(t, db.Migrator().HasTable(&models.Memorial{}))
	require.True(t, db.Migrator().HasTable(&models.Attendance{}))
	require.True(t, db.Migrator().HasIndex(&models.Attendance{}, "idx_attendance_memorial_waitlist"))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(&config.Config{DatabaseDriver: "postgres"})
	require.ErrorContains(t, err, "DATABASE_DSN")

	_, err = Open(&config.Config{DatabaseDriver: "mysql"})
	require.ErrorContains(t, err, "unsupported")
}
