package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/testdb"
	"golang.org/x/crypto/bcrypt"
)

func setupDB(t *testing.T) {
	t.Helper()
	testdb.New(t)
	silenceDispatch(t)
}

// silenceDispatch keeps tests from scheduling real collaborator work.
func silenceDispatch(t *testing.T) {
	t.Helper()

	prevWelcome := enqueueWelcomeEmail
	prevGeocode := enqueueGeocode

	enqueueWelcomeEmail = func(models.User) {}
	enqueueGeocode = func(uint, string) {}

	t.Cleanup(func() {
		enqueueWelcomeEmail = prevWelcome
		enqueueGeocode = prevGeocode
	})
}

func createUser(t *testing.T, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("dottle-nouveau-pavilion"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		FirstName:    "Joe",
		LastName:     "Tester",
		Email:        email,
		PasswordHash: string(hash),
	}

	require.NoError(t, db.DB.Create(&user).Error)
	return &user
}

func createProject(t *testing.T, owner *models.User, name string) *models.Project {
	t.Helper()

	project := models.Project{Name: name, OwnerID: owner.ID}
	require.NoError(t, db.DB.Create(&project).Error)
	return &project
}

func projectCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(&models.Project{}).Count(&count).Error)
	return count
}

func taskCount(t *testing.T, projectID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&count).Error)
	return count
}

func noteCount(t *testing.T, projectID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Model(&models.Note{}).Where("project_id = ?", projectID).Count(&count).Error)
	return count
}
