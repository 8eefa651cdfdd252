package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/tristendillon/pcc/core/config"
	"github.com/tristendillon/pcc/core/logger"
)

const DefaultFileName = "combined_code.txt"

// Request holds the flags that decide where a bundle goes.
type Request struct {
	Copy       bool
	Save       bool
	OutputPath string
}

// Sink receives a finished bundle.
type Sink interface {
	Write(text string) error
}

type ClipboardSink struct{}

func (ClipboardSink) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	logger.Info("Combined code copied to clipboard.")
	return nil
}

type FileSink struct {
	Path string
}

func (s FileSink) Write(text string) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.Path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	logger.Info("Combined code saved to file: %s", s.Path)
	return nil
}

// Choose picks the sink: --copy, then --save, then the configured action.
func Choose(req Request, cfg *config.Config, workDir string) (Sink, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	switch {
	case req.Copy:
		return ClipboardSink{}, nil
	case req.Save:
		return fileSink(req, cfg, workDir)
	}

	switch cfg.Default.Action {
	case config.ActionCopy:
		return ClipboardSink{}, nil
	case config.ActionSave:
		return fileSink(req, cfg, workDir)
	case "":
		return nil, fmt.Errorf("no action specified, use --copy or --save")
	default:
		return nil, fmt.Errorf("unknown action: %s", cfg.Default.Action)
	}
}

func fileSink(req Request, cfg *config.Config, workDir string) (Sink, error) {
	path, err := Path(req, cfg, workDir)
	if err != nil {
		return nil, err
	}
	return FileSink{Path: path}, nil
}

// Path resolves the save location: --output-path, config output_path, config
// output_file_name in workDir, then DefaultFileName in workDir.
func Path(req Request, cfg *config.Config, workDir string) (string, error) {
	if req.OutputPath != "" {
		return ExpandTilde(req.OutputPath)
	}
	if cfg.Default.OutputPath != "" {
		return ExpandTilde(cfg.Default.OutputPath)
	}
	if cfg.Default.OutputFileName != "" {
		return filepath.Join(workDir, cfg.Default.OutputFileName), nil
	}
	return filepath.Join(workDir, DefaultFileName), nil
}

// ExpandTilde replaces a leading ~ with the home directory.
func ExpandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home dir: %w", err)
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(path, "~"), string(filepath.Separator))
	rest = strings.TrimPrefix(rest, "/")
	return filepath.Join(home, rest), nil
}
