package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO files (path, hash, line_count, last_indexed) VALUES (?, ?, ?, ?)",
		f.Path, f.Hash, f.LineCount, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

func (s *Store) FileByPath(path string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow(
		"SELECT id, path, hash, line_count, last_indexed FROM files WHERE path = ?", path,
	).Scan(&f.ID, &f.Path, &f.Hash, &f.LineCount, &f.LastIndexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query(
		"SELECT id, path, hash, line_count, last_indexed FROM files ORDER BY path",
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path, &f.Hash, &f.LineCount, &f.LastIndexed); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteFile removes a file record and its definitions.
func (s *Store) DeleteFile(fileID int64) error {
	if _, err := s.db.Exec("DELETE FROM definitions WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("delete definitions: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM files WHERE id = ?", fileID); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// --- Definition operations ---

func (s *Store) InsertDefinition(d *Definition) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO definitions (file_id, name, title, kind, start_line, line_count, doc) VALUES (?, ?, ?, ?, ?, ?, ?)",
		d.FileID, d.Name, d.Title, d.Kind, d.StartLine, d.LineCount, d.Doc,
	)
	if err != nil {
		return 0, fmt.Errorf("insert definition: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	d.ID = id
	return id, nil
}

func (s *Store) DefinitionsByFile(fileID int64) ([]*Definition, error) {
	rows, err := s.db.Query(
		"SELECT id, file_id, name, title, kind, start_line, line_count, doc FROM definitions WHERE file_id = ? ORDER BY start_line",
		fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("definitions by file: %w", err)
	}
	defer rows.Close()
	return scanDefinitions(rows)
}

// SearchDefinitions returns definitions whose name matches the SQL LIKE
// pattern, joined with their file paths, ordered by name then path.
func (s *Store) SearchDefinitions(pattern string) ([]*DefinitionHit, error) {
	rows, err := s.db.Query(
		`SELECT d.id, d.file_id, d.name, d.title, d.kind, d.start_line, d.line_count, d.doc, f.path
		 FROM definitions d JOIN files f ON f.id = d.file_id
		 WHERE d.name LIKE ? ORDER BY d.name, f.path, d.start_line`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search definitions: %w", err)
	}
	defer rows.Close()
	var hits []*DefinitionHit
	for rows.Next() {
		h := &DefinitionHit{}
		if err := rows.Scan(&h.ID, &h.FileID, &h.Name, &h.Title, &h.Kind,
			&h.StartLine, &h.LineCount, &h.Doc, &h.Path); err != nil {
			return nil, fmt.Errorf("scan definition hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func scanDefinitions(rows *sql.Rows) ([]*Definition, error) {
	var defs []*Definition
	for rows.Next() {
		d := &Definition{}
		if err := rows.Scan(&d.ID, &d.FileID, &d.Name, &d.Title, &d.Kind,
			&d.StartLine, &d.LineCount, &d.Doc); err != nil {
			return nil, fmt.Errorf("scan definition: %w", err)
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}
