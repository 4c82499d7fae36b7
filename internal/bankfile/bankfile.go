// Package bankfile reads and writes the per-game puzzle bank files.
//
// A bank file is a UTF-8, two-space indented JSON array of puzzles terminated by a newline, stored at
// <dir>/<game>/puzzles.json.
package bankfile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
)

const fileName = "puzzles.json"

var ErrNotArray = errors.NewSentinel("bank file is not a JSON array")

// Path returns the location of the bank of game below dir.
func Path(dir string, game models.GameType) string {
	return filepath.Join(dir, string(game), fileName)
}

// Encode writes bank in the published file format.
func Encode(w io.Writer, bank models.Bank) error {
	puzzles := bank.Puzzles
	if puzzles == nil {
		puzzles = []models.Puzzle{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	// Encode terminates the document with a newline.
	if err := enc.Encode(puzzles); err != nil {
		return errors.Wrap(err, "encode bank", slog.String("game", string(bank.Game)))
	}
	return nil
}

// Marshal returns the published file contents of bank.
func Marshal(bank models.Bank) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, bank); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a bank file of game into its typed puzzles. Each element goes through [models.DecodePuzzle].
func Decode(game models.GameType, data []byte) (models.Bank, error) {
	game, err := models.ParseGameType(string(game))
	if err != nil {
		return models.Bank{}, errors.Wrap(err, "decode bank")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return models.Bank{}, errors.Wrap(ErrNotArray, "decode bank", slog.String("game", string(game)))
	}
	var raw []json.RawMessage
	if err = json.Unmarshal(trimmed, &raw); err != nil {
		return models.Bank{}, errors.Wrap(err, "unmarshal bank", slog.String("game", string(game)))
	}
	puzzles := make([]models.Puzzle, len(raw))
	for i, element := range raw {
		p, decodeErr := models.DecodePuzzle(game, element)
		if decodeErr != nil {
			return models.Bank{}, errors.Wrap(decodeErr, "decode bank", slog.String("game", string(game)), slog.Int("index", i))
		}
		puzzles[i] = p
	}
	return models.Bank{Game: game, Puzzles: puzzles}, nil
}

// DecodePuzzles parses a JSON array of puzzles of game, e.g., a batch returned by a content source.
func DecodePuzzles(game models.GameType, data []byte) ([]models.Puzzle, error) {
	bank, err := Decode(game, data)
	if err != nil {
		return nil, err
	}
	return bank.Puzzles, nil
}

// Store reads and writes bank files below a root directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger.With("source", "bankfile"),
	}
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

// ReadRaw returns the unparsed bank file of game.
func (s *Store) ReadRaw(game models.GameType) ([]byte, error) {
	path := Path(s.dir, game)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read bank file", slog.String("path", path))
	}
	return data, nil
}

// Read loads and decodes the bank of game.
func (s *Store) Read(ctx context.Context, game models.GameType) (models.Bank, error) {
	data, err := s.ReadRaw(game)
	if err != nil {
		return models.Bank{}, err
	}
	bank, err := Decode(game, data)
	if err != nil {
		return models.Bank{}, err
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "read bank",
		slog.String("game", string(game)), slog.Int("puzzles", bank.Len()))
	return bank, nil
}

// Write replaces the bank file atomically so that readers never observe a partially written bank.
func (s *Store) Write(ctx context.Context, bank models.Bank) error {
	data, err := Marshal(bank)
	if err != nil {
		return err
	}
	path := Path(s.dir, bank.Game)
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd // rwxr-xr-x
		return errors.Wrap(err, "create bank directory", slog.String("path", path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), fileName+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temporary bank file")
	}
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmp.Name())
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temporary bank file", slog.String("path", tmp.Name()))
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close temporary bank file", slog.String("path", tmp.Name()))
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:mnd // rw-r--r--
		return errors.Wrap(err, "chmod bank file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "replace bank file", slog.String("path", path))
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "wrote bank",
		slog.String("game", string(bank.Game)),
		slog.Int("puzzles", bank.Len()),
		slog.String("path", path))
	return nil
}
