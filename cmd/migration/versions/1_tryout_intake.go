package versions

import (
	"log"

	"gorm.io/gorm"
)

/*
 * Earlier deployments stored tryout submissions without any dedup, so the
 * table can contain multiple rows for the same email. The unique index on
 * contact_email cannot be created until those duplicates are removed, hence
 * this runs as a migration instead of relying on AutoMigrate.
 */
func Migration_1_tryout_intake(txn *gorm.DB) error {
	type Tryout struct {
		ReadStatus bool
	}

	if !txn.Migrator().HasColumn(&Tryout{}, "ReadStatus") {
		if err := txn.Migrator().AddColumn(&Tryout{}, "ReadStatus"); err != nil {
			return err
		}
	}

	// Keep the earliest submission for each email, drop the rest.
	res := txn.Exec(`
		DELETE FROM tryouts WHERE id NOT IN (
			SELECT MIN(id) FROM tryouts GROUP BY contact_email
		)
	`)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("removed %d duplicate tryout submissions", res.RowsAffected)
	}

	return txn.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_tryouts_contact_email ON tryouts (contact_email)`).Error
}
