package db

import (
	"fmt"

	"notable/internal/auth"
	"notable/internal/jobs"
	"notable/internal/note"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&note.Note{},
		&note.Label{},
		&note.NoteLabel{},
		&jobs.Job{},
	); err != nil {
		return err
	}

	// Label names are unique per user, not globally.
	if err := gdb.Exec(`create unique index if not exists uq_labels_user_name on labels(user_id, name);`).Error; err != nil {
		return err
	}

	// External identity ids are unique when present.
	if err := gdb.Exec(`
create unique index if not exists uq_users_external
on users(external_id)
where external_id is not null;
`).Error; err != nil {
		return err
	}

	// Cascades back up the application-level join cleanup.
	fks := []string{
		`alter table note_labels drop constraint if exists fk_note_labels_note;`,
		`alter table note_labels add constraint fk_note_labels_note
			foreign key (note_id) references notes(id) on delete cascade;`,
		`alter table note_labels drop constraint if exists fk_note_labels_label;`,
		`alter table note_labels add constraint fk_note_labels_label
			foreign key (label_id) references labels(id) on delete cascade;`,
	}
	for _, s := range fks {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("constraint exec failed: %w (sql=%s)", err, s)
		}
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_notes_user_updated on notes(user_id, updated_at desc);`,
		`create index if not exists idx_note_labels_user_label on note_labels(user_id, label_id);`,
		`create index if not exists idx_note_labels_label on note_labels(label_id);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
