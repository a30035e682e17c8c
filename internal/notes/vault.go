package notes

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/josephgoksu/BibleWing/internal/store"
)

// ErrNoteExists is returned when a note is already on disk and the write
// was not forced.
var ErrNoteExists = errors.New("note already exists")

// Vault writes notes into a directory. It uses an afero.Fs so tests can run
// against afero.NewMemMapFs().
type Vault struct {
	fs  afero.Fs
	dir string
}

// NewVault returns a vault rooted at dir on fs.
func NewVault(fs afero.Fs, dir string) *Vault {
	return &Vault{fs: fs, dir: dir}
}

// NewOSVault returns a vault on the real filesystem.
func NewOSVault(dir string) *Vault {
	return NewVault(afero.NewOsFs(), dir)
}

// Dir returns the vault directory.
func (v *Vault) Dir() string { return v.dir }

// WriteVerseNote renders and writes the note for verse, returning its path.
// An existing note is kept unless force is set.
func (v *Vault) WriteVerseNote(verse store.Verse, links store.LinkedEntitySet, force bool) (string, error) {
	if err := v.fs.MkdirAll(v.dir, 0755); err != nil {
		return "", fmt.Errorf("create notes dir: %w", err)
	}

	path := filepath.Join(v.dir, Filename(verse.Book, verse.Chapter, verse.Verse))
	if !force {
		exists, err := afero.Exists(v.fs, path)
		if err != nil {
			return "", fmt.Errorf("stat note: %w", err)
		}
		if exists {
			return path, fmt.Errorf("%w: %s", ErrNoteExists, path)
		}
	}

	if err := afero.WriteFile(v.fs, path, []byte(Render(verse, links)), 0644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	return path, nil
}
