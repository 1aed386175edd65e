package videoid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefixes for the two id families minted by the service.
const (
	VideoPrefix   = "vid"
	CommentPrefix = "cmt"
)

var (
	entropyOnce sync.Once
	entropy     *ulid.LockedMonotonicReader
)

// newEntropy returns the shared entropy source. Ids are minted on request
// goroutines, so the monotonic reader must be safe for concurrent use.
func newEntropy() *ulid.LockedMonotonicReader {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = &ulid.LockedMonotonicReader{
			MonotonicReader: ulid.Monotonic(rand.New(source), 0),
		}
	})
	return entropy
}

// New returns a prefixed lowercase ULID string, e.g. vid_01h....
func New(prefix string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	return prefix + "_" + strings.ToLower(id.String())
}

// NewVideo mints a video record id.
func NewVideo() string { return New(VideoPrefix) }

// NewComment mints a comment id.
func NewComment() string { return New(CommentPrefix) }

// IsValid reports whether the string is a prefixed ULID.
func IsValid(value, prefix string) bool {
	if !strings.HasPrefix(value, prefix+"_") {
		return false
	}
	_, err := Parse(value, prefix)
	return err == nil
}

// Parse strips the prefix and returns the ULID.
func Parse(value, prefix string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, prefix+"_")
	return ulid.Parse(value)
}
