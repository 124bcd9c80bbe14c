package models

type Model interface{}

var models = []Model{}

type migrator interface {
	AutoMigrate(...interface{}) error
}

// AutoMigrate brings the schema of every registered model up to date.
func AutoMigrate(db migrator) error {
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}
	return nil
}

func registerForAutomigration(m Model) {
	models = append(models, m)
}
