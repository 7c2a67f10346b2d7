package repositories

import (
	"github.com/yigit/gradplanner/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRecordRepository *CourseRecordRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		CourseRecordRepository: NewCourseRecordRepository(database),
	}
}
