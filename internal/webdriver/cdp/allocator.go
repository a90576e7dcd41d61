// internal/webdriver/cdp/allocator.go
package cdp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// Mode selects how the browser is obtained.
type Mode string

const (
	// ModeLocal launches a Chrome process on this machine.
	ModeLocal Mode = "local"
	// ModeRemote attaches to an already running browser's DevTools endpoint.
	ModeRemote Mode = "remote"
)

// Options configures Open.
type Options struct {
	Mode Mode
	// RemoteURL is the DevTools websocket or http endpoint for ModeRemote.
	RemoteURL string
	// CommandTimeout bounds every protocol round trip. Zero leaves only the caller's deadline.
	CommandTimeout time.Duration
	Headless       bool
	// Args are extra Chrome switches, with or without the leading dashes. key=value is supported.
	Args []string
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string
	// DownloadDir, when set, receives every download without a prompt.
	DownloadDir string
	// DisablePDFViewer makes PDFs download instead of opening inline.
	DisablePDFViewer bool
}

// Open starts or attaches to a browser and returns a driver bound to its first tab.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (*Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("cdp")

	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
		profileDir  string
	)
	switch opts.Mode {
	case ModeRemote:
		if opts.RemoteURL == "" {
			return nil, fmt.Errorf("remote mode requires a remote url")
		}
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	case ModeLocal, "":
		execOpts, dir, err := execAllocatorOptions(opts)
		if err != nil {
			return nil, err
		}
		profileDir = dir
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, execOpts...)
	default:
		return nil, fmt.Errorf("unknown browser mode %q", opts.Mode)
	}

	sugar := log.Sugar()
	rootCtx, rootCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)

	// The first Run allocates the browser. It must see the context chromedp created, not a
	// derived one, or cancelling the derived context tears the browser down.
	if err := chromedp.Run(rootCtx); err != nil {
		rootCancel()
		allocCancel()
		if profileDir != "" {
			_ = os.RemoveAll(profileDir)
		}
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	handle := string(chromedp.FromContext(rootCtx).Target.TargetID)
	d := &Driver{
		logger:      log,
		allocCancel: allocCancel,
		profileDir:  profileDir,
		cmdTimeout:  opts.CommandTimeout,
		rootCtx:     rootCtx,
		rootCancel:  rootCancel,
		rootHandle:  handle,
		tabs:        map[string]tab{handle: {ctx: rootCtx, cancel: rootCancel}},
		current:     handle,
	}

	if opts.DownloadDir != "" && opts.Mode != ModeRemote {
		err := d.run(ctx, "set download behavior",
			browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
				WithDownloadPath(opts.DownloadDir).
				WithEventsEnabled(true))
		if err != nil {
			_ = d.Quit(ctx)
			return nil, fmt.Errorf("failed to configure downloads: %w", err)
		}
	}

	log.Info("Browser session started.", zap.String("mode", string(opts.Mode)), zap.String("tab", handle))
	return d, nil
}

// execAllocatorOptions builds the launch flags. When a profile preference is needed it writes a
// throwaway user data dir and returns its path so the caller can remove it.
func execAllocatorOptions(opts Options) ([]chromedp.ExecAllocatorOption, string, error) {
	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("incognito", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("headless", opts.Headless),
	)
	if opts.ExecPath != "" {
		execOpts = append(execOpts, chromedp.ExecPath(opts.ExecPath))
	}

	for _, arg := range opts.Args {
		arg = strings.TrimLeft(arg, "-")
		if arg == "" {
			continue
		}
		key, value, found := strings.Cut(arg, "=")
		if found {
			execOpts = append(execOpts, chromedp.Flag(key, value))
		} else {
			execOpts = append(execOpts, chromedp.Flag(key, true))
		}
	}

	if opts.DownloadDir == "" && !opts.DisablePDFViewer {
		return execOpts, "", nil
	}

	dir, err := writeProfile(opts)
	if err != nil {
		return nil, "", err
	}
	return append(execOpts, chromedp.UserDataDir(dir)), dir, nil
}

// writeProfile seeds a user data dir with download preferences Chrome only reads from disk.
func writeProfile(opts Options) (string, error) {
	dir, err := os.MkdirTemp("", "gauntlet-profile-")
	if err != nil {
		return "", fmt.Errorf("failed to create browser profile dir: %w", err)
	}

	download := map[string]any{"prompt_for_download": false}
	if opts.DownloadDir != "" {
		download["default_directory"] = opts.DownloadDir
	}
	prefs := map[string]any{"download": download}
	if opts.DisablePDFViewer {
		prefs["plugins"] = map[string]any{"always_open_pdf_externally": true}
	}
	data, err := jsoniter.Marshal(prefs)
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to encode browser preferences: %w", err)
	}

	def := filepath.Join(dir, "Default")
	if err := os.MkdirAll(def, 0o755); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to create browser profile dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(def, "Preferences"), data, 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to write browser preferences: %w", err)
	}
	return dir, nil
}
