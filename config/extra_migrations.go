package config

import "gorm.io/gorm"

// CreateContactEmailPartialIndex keeps emails unique per organization among
// contacts that are not DELETED. Soft-deleted rows keep their email so an
// address can be re-imported after the old contact was removed.
//
// The comparison is byte-exact; case-insensitive matching happens in the
// import path before rows ever reach the insert.
func CreateContactEmailPartialIndex(db *gorm.DB) error {
	return db.Exec(`
		DROP INDEX IF EXISTS idx_contacts_org_email;
		CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_org_email_active
		ON contacts (organization_id, email)
		WHERE status <> 'DELETED';
	`).Error
}

// CreateContactLookupIndex supports the lower(email) probe issued before each
// bulk import.
func CreateContactLookupIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_contacts_org_lower_email
		ON contacts (organization_id, LOWER(email));
	`).Error
}
