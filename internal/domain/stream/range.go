package stream

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnsatisfiable is returned when a Range header cannot be honored
// against the resource size. Maps to HTTP 416.
var ErrUnsatisfiable = errors.New("requested range not satisfiable")

// ByteRange is an inclusive byte window over a resource.
type ByteRange struct {
	Start   int64
	End     int64
	Length  int64
	Partial bool
}

// ResolveRange maps a Range header value (format "bytes=<start>-[<end>]")
// and a total resource size onto a concrete byte window. An empty header
// yields the full window, non-partial. The end offset is clamped to the
// last byte of the resource.
func ResolveRange(header string, size int64) (ByteRange, error) {
	if header == "" {
		return ByteRange{Start: 0, End: size - 1, Length: size, Partial: false}, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return ByteRange{}, ErrUnsatisfiable
	}

	startPart, endPart, ok := strings.Cut(spec, "-")
	if !ok {
		return ByteRange{}, ErrUnsatisfiable
	}

	start, err := strconv.ParseInt(startPart, 10, 64)
	if err != nil || start < 0 {
		return ByteRange{}, ErrUnsatisfiable
	}
	if start >= size {
		return ByteRange{}, ErrUnsatisfiable
	}

	end := size - 1
	if endPart != "" {
		end, err = strconv.ParseInt(endPart, 10, 64)
		if err != nil {
			return ByteRange{}, ErrUnsatisfiable
		}
		if end > size-1 {
			end = size - 1
		}
	}

	if start > end {
		return ByteRange{}, ErrUnsatisfiable
	}

	return ByteRange{Start: start, End: end, Length: end - start + 1, Partial: true}, nil
}
