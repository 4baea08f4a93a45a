package fileops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"picsort/internal/config"
	"picsort/internal/errors"
	"picsort/internal/log"
)

// Engine performs the filesystem side of filing an image.
type Engine struct {
	dryRun    bool
	collision string
	mu        sync.Mutex // Serializes collision checks and the transfer that follows
}

// New creates an engine with the default collision strategy.
func New() *Engine {
	return &Engine{collision: config.CollisionOverwrite}
}

// NewWithConfig creates an engine from configuration.
func NewWithConfig(cfg *config.Config) *Engine {
	return &Engine{
		dryRun:    cfg.Settings.DryRun,
		collision: cfg.Settings.Collision,
	}
}

// SetDryRun sets whether operations should be performed or just logged
func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// SetCollision sets the collision strategy.
func (e *Engine) SetCollision(strategy string) {
	e.collision = strategy
}

// CreateDirectories creates path and its parents. Existing directories are fine.
func (e *Engine) CreateDirectories(path string) error {
	if e.dryRun {
		log.Info("Would create directory %s", path)
		return nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.NewFileError("failed to create directory", path, errors.FileCreateFailed, err)
	}
	return nil
}

// Move moves src to dest. A rename that crosses filesystems falls back to
// copy then remove.
func (e *Engine) Move(src, dest string) (Outcome, error) {
	return e.transfer(src, dest, true)
}

// CopyPreservingMetadata copies src to dest keeping permission bits and the
// modification time.
func (e *Engine) CopyPreservingMetadata(src, dest string) (Outcome, error) {
	return e.transfer(src, dest, false)
}

func (e *Engine) transfer(src, dest string, move bool) (Outcome, error) {
	verb := "copy"
	if move {
		verb = "move"
	}

	cleanSrc := filepath.Clean(src)
	cleanDest := filepath.Clean(dest)
	outcome := Outcome{Source: cleanSrc, Destination: cleanDest}

	if cleanSrc == cleanDest {
		log.Debug("Source and destination are the same, skipping: %s", src)
		outcome.Skipped = true
		return outcome, nil
	}

	srcInfo, err := os.Stat(cleanSrc)
	if err != nil {
		if os.IsNotExist(err) {
			return outcome, errors.NewFileError("source file not found", cleanSrc, errors.FileNotFound, err)
		}
		return outcome, errors.NewFileError("source file error", cleanSrc, errors.FileAccessDenied, err)
	}
	if srcInfo.IsDir() {
		return outcome, errors.NewFileError("cannot "+verb+" directory as file", cleanSrc, errors.InvalidPath, nil)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dryRun {
		log.Info("Would %s %s -> %s", verb, cleanSrc, cleanDest)
		outcome.DryRun = true
		return outcome, nil
	}

	destDir := filepath.Dir(cleanDest)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return outcome, errors.NewFileError("failed to create destination directory", destDir, errors.FileCreateFailed, err)
	}

	finalDest, err := e.handleCollision(cleanSrc, cleanDest)
	if err != nil {
		return outcome, err
	}
	if finalDest == "" {
		outcome.Skipped = true
		return outcome, nil
	}
	outcome.Destination = finalDest

	if move {
		err = moveFile(cleanSrc, finalDest)
	} else {
		err = copyFile(cleanSrc, finalDest, srcInfo)
	}
	if err != nil {
		return outcome, errors.NewFileError("failed to "+verb+" file", cleanSrc, errors.FileOperationFailed, err)
	}

	outcome.Transferred = true
	log.LogWithFields(log.F("op", verb), log.F("src", cleanSrc), log.F("dest", finalDest)).Info("Filed image")
	return outcome, nil
}

// handleCollision implements collision resolution strategies.
// It returns the final destination path, or "" when the file should be skipped.
func (e *Engine) handleCollision(src, dest string) (string, error) {
	_, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return dest, nil
	}
	if err != nil {
		return "", errors.NewFileError("error checking destination", dest, errors.FileAccessDenied, err)
	}

	log.Warn("Destination file %s already exists. Handling collision with strategy: %s", dest, e.collision)

	switch e.collision {
	case config.CollisionSkip:
		log.Info("Skipping %s due to collision (strategy: skip)", src)
		return "", nil

	case config.CollisionOverwrite, "":
		return dest, nil

	case config.CollisionRename:
		return findUniqueDestName(dest)

	default:
		return "", errors.NewConfigError("unknown collision strategy", e.collision, errors.InvalidConfig, nil)
	}
}

// findUniqueDestName finds a unique filename by adding counter to the basename
func findUniqueDestName(originalPath string) (string, error) {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)

	for counter := 1; counter <= 1000; counter++ {
		newName := fmt.Sprintf("%s_(%d)%s", base, counter, ext)

		if _, err := os.Stat(newName); os.IsNotExist(err) {
			log.Info("Renaming destination to %s due to collision (strategy: rename)", newName)
			return newName, nil
		}
	}

	return "", errors.NewFileError("failed to find unique name after 1000 attempts", originalPath, errors.FileOperationFailed, nil)
}

func moveFile(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || linkErr.Err != syscall.EXDEV {
		return err
	}

	log.Debug("Cross-device move, copying %s -> %s", src, dest)
	info, statErr := os.Stat(src)
	if statErr != nil {
		return statErr
	}
	if err := copyFile(src, dest, info); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dest string, info os.FileInfo) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	destFile, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, srcFile); err != nil {
		destFile.Close()
		return err
	}
	if err := destFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dest, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}
