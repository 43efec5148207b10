package service

import (
	"errors"
	"os"
)

var errNotRegular = errors.New("not a regular file")

// ValidateInputs checks both paths before anything is opened. The CSV is
// checked first; the database file must already exist since only the
// table is created on demand.
func ValidateInputs(csvPath, dbPath string) error {
	if err := checkRegularFile(csvPath); err != nil {
		return &MissingFileError{Kind: FileCSV, Path: csvPath, Err: err}
	}
	if err := checkRegularFile(dbPath); err != nil {
		return &MissingFileError{Kind: FileDatabase, Path: dbPath, Err: err}
	}
	return nil
}

func checkRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return errNotRegular
	}
	return nil
}
