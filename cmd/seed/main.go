package main

import (
	"log"

	"github.com/mlebedev/coursehub/internal/config"
	"github.com/mlebedev/coursehub/internal/models"
)

// Seeds the catalog with the demo courses. Wipes existing courses and
// their enrollments first.
func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if err := db.Where("1 = 1").Delete(&models.Enrollment{}).Error; err != nil {
		log.Fatalf("cannot clear enrollments: %v", err)
	}
	if err := db.Where("1 = 1").Delete(&models.Course{}).Error; err != nil {
		log.Fatalf("cannot clear courses: %v", err)
	}

	courses := []models.Course{
		{
			Title:         "Full Stack Web Development",
			Instructor:    "John Doe",
			DurationWeeks: 12,
			Description:   "HTML, CSS, JavaScript, Node.js and MongoDB.",
		},
		{
			Title:         "Data Science & Machine Learning",
			Instructor:    "Jane Smith",
			DurationWeeks: 10,
			Description:   "Python, pandas, ML basics, model building.",
		},
		{
			Title:         "Cloud Computing with AWS",
			Instructor:    "David Brown",
			DurationWeeks: 8,
			Description:   "Cloud fundamentals, EC2, S3, Lambda.",
		},
		{
			Title:         "Cyber Security Fundamentals",
			Instructor:    "Emily Johnson",
			DurationWeeks: 6,
			Description:   "Security basics, authentication, best practices.",
		},
	}

	if err := db.Create(&courses).Error; err != nil {
		log.Fatalf("cannot seed courses: %v", err)
	}

	log.Printf("seeded %d courses", len(courses))
}
