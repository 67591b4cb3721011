package mysql

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

var (
	createdAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	userCols  = []string{"id", "username", "email", "hashed_password", "is_admin", "created_at", "updated_at"}
)

// newMockDB opens gorm over sqlmock with the same error translation Connect
// uses. Every executed UPDATE statement is appended to updates.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *[]string) {
	t.Helper()

	var updates []string
	matcher := sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		if err := sqlmock.QueryMatcherRegexp.Match(expected, actual); err != nil {
			return err
		}
		if strings.HasPrefix(actual, "UPDATE") {
			updates = append(updates, actual)
		}
		return nil
	})

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock, &updates
}

func duplicateEntry() error {
	return &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'users.idx_users_username'"}
}

func TestPrincipalRepository_FindByUsername(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE username = \\?").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "alice", "a@x.com", "$2a$hash", false, createdAt, createdAt))

	p, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(4), p.ID)
	assert.Equal(t, domain.KindUser, p.Kind)
	assert.Equal(t, "$2a$hash", p.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_FindByID_NotFound(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `admins` WHERE `admins`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_Create(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	p, err := repo.Create(context.Background(), &domain.Principal{
		Kind: domain.KindUser, Username: "alice", Email: "a@x.com", PasswordHash: "h",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_Create_Duplicate(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnError(duplicateEntry())
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &domain.Principal{
		Kind: domain.KindUser, Username: "alice", Email: "a@x.com", PasswordHash: "h",
	})
	assert.ErrorIs(t, err, domain.ErrUniqueViolation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_Update_KeepsCreatedAt(t *testing.T) {
	db, mock, updates := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "alice", "a@x.com", "old", false, createdAt, createdAt))
	mock.ExpectExec("UPDATE `users` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := repo.Update(context.Background(), &domain.Principal{
		ID: 4, Kind: domain.KindUser, Username: "alice", Email: "alice@x.com", PasswordHash: "new", IsAdmin: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", p.Email)
	assert.True(t, p.IsAdmin)
	assert.Equal(t, createdAt, p.CreatedAt)

	require.NotEmpty(t, *updates)
	stmt := (*updates)[len(*updates)-1]
	assert.NotContains(t, stmt, "created_at")
	assert.Contains(t, stmt, "`hashed_password`=?")
	assert.Contains(t, stmt, "`is_admin`=?")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_Update_Duplicate(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(5, "bob", "b@x.com", "h", false, createdAt, createdAt))
	mock.ExpectExec("UPDATE `users` SET").WillReturnError(duplicateEntry())
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), &domain.Principal{ID: 5, Kind: domain.KindUser, Username: "alice", Email: "b@x.com"})
	assert.ErrorIs(t, err, domain.ErrUniqueViolation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_Update_Missing(t *testing.T) {
	db, mock, updates := newMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `admins` WHERE `admins`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), &domain.Principal{ID: 42, Kind: domain.KindAdmin, Username: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, *updates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_Delete(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `users` WHERE `users`.`id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_Delete_NoRows(t *testing.T) {
	db, mock, _ := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `users` WHERE `users`.`id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, repo.Delete(context.Background(), 4), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
