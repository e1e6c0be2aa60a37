//go:build linux

package system

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/rook-computer/boardview/internal/obslog"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

var consolePaths = []string{"/dev/tty", "/dev/tty0"}


// SetGraphicsMode switches the active console to graphics mode so the text
// cursor and kernel messages do not paint over the framebuffer.
func SetGraphicsMode() error { return setConsoleMode(kdGraphics, "KD_GRAPHICS") }

// RestoreTextMode switches the active console back to text mode.
func RestoreTextMode() error { return setConsoleMode(kdText, "KD_TEXT") }

func setConsoleMode(mode int, name string) error {
	var errs []error
	for _, p := range consolePaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", p, err))
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		_ = unix.Close(fd)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s on %s: %w", name, p, err))
			continue
		}
		return nil
	}
	return errors.Join(errs...)
}

// HideCursor and ShowCursor toggle the VT cursor with ANSI escapes.
func HideCursor() error { return writeVT("\x1b[?25l") }
func ShowCursor() error { return writeVT("\x1b[?25h") }

func writeVT(s string) error {
	var errs []error
	for _, p := range consolePaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, err = f.WriteString(s)
		_ = f.Close()
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("write VT: %w", errors.Join(errs...))
}

// EnterGraphics sets graphics mode and hides the cursor, logging failures.
// The returned func undoes both.
func EnterGraphics(l obslog.Logger) (restore func()) {
	logStep(l, "KD_GRAPHICS set", SetGraphicsMode())
	logStep(l, "cursor hidden", HideCursor())
	return func() {
		logStep(l, "cursor shown", ShowCursor())
		logStep(l, "KD_TEXT set", RestoreTextMode())
	}
}

func logStep(l obslog.Logger, done string, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.Errorf("tty", "%s failed: %v", done, err)
		return
	}
	l.Infof("tty", "%s", done)
}
