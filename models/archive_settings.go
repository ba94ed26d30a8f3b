package models

type ArchiveSettings struct {
	ID                 int  `json:"id" db:"id"` // Всегда 1, единственная строка настроек
	AutoArchive        bool `json:"auto_archive" db:"auto_archive"`
	ArchiveAfterMonths int  `json:"archive_after_months" db:"archive_after_months"`
	KeepRecentMonths   int  `json:"keep_recent_months" db:"keep_recent_months"`
}

func DefaultArchiveSettings() ArchiveSettings {
	return ArchiveSettings{
		ID:                 1,
		AutoArchive:        false,
		ArchiveAfterMonths: 12,
		KeepRecentMonths:   12,
	}
}
