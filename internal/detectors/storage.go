package detectors

import "github.com/droidaudit/droidaudit/internal/types"

const groupStorage = "storage_security"

func storage() Category {
	sev := types.SevMedium
	return Category{
		ID:    types.CatStorage,
		Type:  "Storage Issue",
		Group: groupStorage,
		Trees: []Tree{SourcesTree},
		Rules: []Rule{
			simple("storage-external", `getExternalStorage|getExternalFilesDir|Environment\.getExternalStorageDirectory`, "Using external storage which may expose sensitive data", sev),
			simple("storage-world-mode", `MODE_WORLD_READABLE|MODE_WORLD_WRITEABLE`, "Using insecure file permissions", sev),
			simple("storage-default-file-mode", `openFileOutput\([^,]+,\s*0\)`, "Creating file with default permissions (potentially insecure)", sev),
			simple("storage-prefs-sensitive", `\.putString\([^,]*?(password|token|key|secret|cred)[^,]*?,`, "Storing sensitive data in SharedPreferences", sev),
			simple("storage-default-db-mode", `database\s*=\s*.*?openOrCreateDatabase\([^,]+,\s*0`, "Creating database with default permissions", sev),
			simple("storage-sqlite-open", `SQLiteDatabase\s*\.\s*openOrCreateDatabase\([^)]*\)`, "Check for encrypted SQLite database usage", sev),
			simple("storage-cursor-query", `Cursor\s+.*?\s*=\s*.*?query\(`, "Database query - check for proper encryption", sev),
		},
	}
}
