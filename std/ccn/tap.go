package ccn

import (
	"fmt"
	"os"
	"time"
)

// tapFile mirrors every outbound message to a file for debugging (§6
// CCN_TAP, §9 GLOSSARY "Tap"). Write failure silently closes the tap;
// further Put calls then proceed without it (§4.2).
type tapFile struct {
	f *os.File
}

// openTap opens the tap file using the original library's naming
// scheme: "<prefix>-<pid>-<sec>-<usec>", append-only, created if
// missing (§12.2 supplemented feature).
func openTap(prefix string) (*tapFile, error) {
	now := time.Now()
	name := fmt.Sprintf("%s-%d-%d-%d", prefix, os.Getpid(), now.Unix(), now.Nanosecond()/1000)
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	return &tapFile{f: f}, nil
}

func (t *tapFile) write(msg []byte) bool {
	if _, err := t.f.Write(msg); err != nil {
		t.f.Close()
		return false
	}
	return true
}

func (t *tapFile) Close() error {
	return t.f.Close()
}
