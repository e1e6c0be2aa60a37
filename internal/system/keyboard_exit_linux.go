//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/rook-computer/boardview/internal/obslog"
)

const evKey = 0x01

// Linux input-event-codes.h
const (
	keyEsc = 1
	keyF4  = 62
)

var exitKeys = map[uint16]string{keyEsc: "Escape", keyF4: "F4"}

// WatchExitKeys watches evdev devices under /dev/input/event* and invokes
// onExit once when Escape or F4 is pressed. It is best-effort: without input
// devices it logs and returns.
func WatchExitKeys(ctx context.Context, l obslog.Logger, onExit func()) {
	if onExit == nil {
		return
	}

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	eventSize := tvSize + 2 + 2 + 4

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if l != nil {
			l.Infof("input", "no evdev devices found, exit keys disabled")
		}
		return
	}

	var once sync.Once
	trigger := func(key string) {
		once.Do(func() {
			if l != nil {
				l.Infof("input", "%s pressed: closing", key)
			}
			onExit()
		})
	}

	for _, path := range paths {
		go watchDevice(ctx, path, tvSize, eventSize, trigger)
	}
}

func watchDevice(ctx context.Context, path string, tvSize, eventSize int, trigger func(string)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() { _ = f.Close() }()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}

		for off := 0; off+eventSize <= n; off += eventSize {
			rec := buf[off : off+eventSize]
			typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
			code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
			value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
			if key, ok := exitKeys[code]; ok && typ == evKey && value == 1 {
				trigger(key)
				return
			}
		}
	}
}
