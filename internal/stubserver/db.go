package stubserver

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open abre la base del stub. sqlite por defecto (archivo o
// "file::memory:?cache=shared" para tests); postgres para entornos de
// desarrollo compartidos.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	switch driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("stubserver: open sqlite: %w", err)
		}
		return db, nil
	case "postgres":
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("stubserver: open postgres: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("stubserver: unsupported driver %q", driver)
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Species{}, &Breed{}, &Owner{}, &Pet{}); err != nil {
		return fmt.Errorf("stubserver: migrate: %w", err)
	}
	return nil
}

// DemoUsername y DemoPassword son las credenciales sembradas.
const (
	DemoUsername = "vet"
	DemoPassword = "vetclinic"
)

// Seed crea el usuario demo y los datos de referencia si no existen.
func Seed(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("stubserver: hash demo password: %w", err)
	}
	user := User{Username: DemoUsername, PasswordHash: string(hash)}
	if err := db.Where(User{Username: user.Username}).FirstOrCreate(&user).Error; err != nil {
		return fmt.Errorf("stubserver: seed user: %w", err)
	}

	seed := map[string][]string{
		"Perro": {"Labrador", "Caniche", "Bulldog"},
		"Gato":  {"Siamés", "Persa"},
		"Ave":   {"Canario"},
	}
	for name, breeds := range seed {
		sp := Species{Name: name}
		if err := db.Where(Species{Name: name}).FirstOrCreate(&sp).Error; err != nil {
			return fmt.Errorf("stubserver: seed species %s: %w", name, err)
		}
		for _, bname := range breeds {
			br := Breed{Name: bname, SpeciesID: sp.ID}
			if err := db.Where(Breed{Name: bname, SpeciesID: sp.ID}).FirstOrCreate(&br).Error; err != nil {
				return fmt.Errorf("stubserver: seed breed %s: %w", bname, err)
			}
		}
	}
	return nil
}
