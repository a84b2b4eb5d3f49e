package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/Odiway/battrack/internal/config"
	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Seeds the default accounts, processes and checklist templates. Safe to run
// repeatedly: existing rows are left untouched.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Process{},
		&entity.ChecklistTemplate{},
		&entity.ChecklistQuestion{},
		&entity.BatteryBox{},
		&entity.BatteryBoxProcess{},
		&entity.ChecklistAnswer{},
		&entity.DefectLog{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Seeding database...")

	seedUser(db, "admin@factory.com", "admin123", "Admin User", entity.RoleAdmin)
	seedUser(db, "operator@factory.com", "operator123", "John Operator", entity.RoleOperator)
	seedUser(db, "quality@factory.com", "quality123", "Quality Inspector", entity.RoleQuality)

	seedProcess(db, "Mechanical Assembly", "Assemble mechanical components", true, 1)
	seedProcess(db, "Welding", "Weld battery box frame", true, 2)
	seedProcess(db, "HV Test", "High voltage isolation test", true, 3)
	seedProcess(db, "Quality Inspection", "Final quality inspection", true, 4)
	seedProcess(db, "Packaging", "Pack for shipping", false, 5)

	seedTemplate(db, "Mechanical Assembly Checklist", "Standard checklist for mechanical assembly", []seedQuestion{
		{"All bolts torqued to specification?", entity.QuestionTypeYesNo, true},
		{"Gaskets properly seated?", entity.QuestionTypeYesNo, true},
		{"Connectors properly aligned?", entity.QuestionTypeYesNo, true},
		{"Visual inspection passed?", entity.QuestionTypeYesNo, true},
		{"Notes/observations", entity.QuestionTypeText, false},
	})
	seedTemplate(db, "Welding Inspection Checklist", "Welding quality checklist", []seedQuestion{
		{"Weld bead consistent?", entity.QuestionTypeYesNo, true},
		{"No visible cracks or porosity?", entity.QuestionTypeYesNo, true},
		{"Penetration depth adequate?", entity.QuestionTypeYesNo, true},
		{"Surface finish acceptable?", entity.QuestionTypeYesNo, true},
	})
	seedTemplate(db, "HV Test Checklist", "High voltage test procedure", []seedQuestion{
		{"Test equipment calibrated?", entity.QuestionTypeYesNo, true},
		{"Safety barriers in place?", entity.QuestionTypeYesNo, true},
		{"Insulation resistance (MΩ)", entity.QuestionTypeNumber, true},
		{"HV test passed at 1500V?", entity.QuestionTypeYesNo, true},
		{"No arcing observed?", entity.QuestionTypeYesNo, true},
	})
	seedTemplate(db, "Final Quality Inspection", "Final quality check before shipping", []seedQuestion{
		{"Serial number label applied?", entity.QuestionTypeYesNo, true},
		{"All documentation complete?", entity.QuestionTypeYesNo, true},
		{"External visual inspection passed?", entity.QuestionTypeYesNo, true},
		{"Weight within specification?", entity.QuestionTypeYesNo, true},
		{"Final approval granted?", entity.QuestionTypeYesNo, true},
	})

	log.Println("Database seeded successfully")
	log.Println("Login credentials:")
	log.Println("  Admin: admin@factory.com / admin123")
	log.Println("  Operator: operator@factory.com / operator123")
	log.Println("  Quality: quality@factory.com / quality123")
}

func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func seedUser(db *gorm.DB, email, password, name, role string) {
	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password for %s: %v", email, err)
	}

	user := entity.User{
		ID:       newID(),
		Email:    email,
		Password: string(hashed),
		Name:     name,
		Role:     role,
		Active:   true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create user %s: %v", email, err)
	}
	log.Printf("Created user %s (%s)", email, role)
}

func seedProcess(db *gorm.DB, name, description string, checklistRequired bool, displayOrder int) {
	var count int64
	db.Model(&entity.Process{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return
	}

	process := entity.Process{
		ID:                newID(),
		Name:              name,
		Description:       description,
		ChecklistRequired: checklistRequired,
		DisplayOrder:      displayOrder,
		Active:            true,
	}
	if err := db.Create(&process).Error; err != nil {
		log.Fatalf("create process %s: %v", name, err)
	}
	log.Printf("Created process %s", name)
}

type seedQuestion struct {
	text     string
	qType    string
	required bool
}

func seedTemplate(db *gorm.DB, name, description string, questions []seedQuestion) {
	var count int64
	db.Model(&entity.ChecklistTemplate{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return
	}

	template := entity.ChecklistTemplate{
		ID:          newID(),
		Name:        name,
		Description: description,
		Active:      true,
	}
	for i, q := range questions {
		template.Questions = append(template.Questions, entity.ChecklistQuestion{
			ID:                  newID(),
			ChecklistTemplateID: template.ID,
			QuestionText:        q.text,
			QuestionType:        q.qType,
			Required:            q.required,
			DisplayOrder:        i + 1,
		})
	}
	if err := db.Create(&template).Error; err != nil {
		log.Fatalf("create template %s: %v", name, err)
	}
	log.Printf("Created template %s with %d questions", name, len(template.Questions))
}
