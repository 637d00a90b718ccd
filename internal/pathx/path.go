// Package pathx builds the logical folder paths used by the document library:
// per-segment percent-encoding, the base/YYYY/MM[/entity] layout and the
// timestamped, collision-resistant file names.
//
// A logical path is a '/'-delimited sequence of human-readable segments.
// Encoding must be applied exactly once, right before a path is embedded in
// a request URL.
package pathx

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
)

// timestampDigits is how many trailing digits of the epoch milliseconds are
// used as a file name prefix.
const timestampDigits = 8

var timestampPrefix = regexp.MustCompile(`^\d+-`)

// Segments splits a logical path and drops empty segments, so leading,
// trailing and duplicate slashes disappear.
func Segments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Clean normalizes a logical path without encoding it.
func Clean(p string) string {
	return strings.Join(Segments(p), "/")
}

// Join concatenates logical paths and normalizes the result.
func Join(parts ...string) string {
	return Clean(strings.Join(parts, "/"))
}

// EncodeSegment percent-encodes a single segment. Spaces become %20; only
// unreserved characters (letters, digits, '-', '_', '.', '~') are left as is.
func EncodeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// EncodePath encodes every segment of p independently and rejoins them with '/'.
func EncodePath(p string) string {
	segs := Segments(p)
	enc := make([]string, len(segs))
	for i, s := range segs {
		enc[i] = EncodeSegment(s)
	}
	return strings.Join(enc, "/")
}

// BuildNestedPath returns base/YYYY/MM or base/YYYY/MM/entityID using now.
// The same entity uploaded in two different months lands in two folders.
func BuildNestedPath(base, entityID string, now time.Time) string {
	safeBase := strings.Trim(base, "/")
	ym := fmt.Sprintf("%04d/%02d", now.Year(), int(now.Month()))

	nested := ym
	if safeBase != "" {
		nested = safeBase + "/" + ym
	}
	if entityID != "" {
		nested += "/" + entityID
	}
	return nested
}

// TimestampPrefix returns the last eight digits of now in epoch milliseconds.
func TimestampPrefix(now time.Time) string {
	s := strconv.FormatInt(now.UnixMilli(), 10)
	if len(s) > timestampDigits {
		s = s[len(s)-timestampDigits:]
	}
	return s
}

// StripTimestampPrefix removes one leading "<digits>-" from name. A name that
// would become empty is returned unchanged.
func StripTimestampPrefix(name string) string {
	stripped := timestampPrefix.ReplaceAllString(name, "")
	if stripped == "" {
		return name
	}
	return stripped
}

// TimestampedName strips any existing timestamp prefix and prepends a fresh one,
// so re-uploading an already prefixed file never doubles the prefix.
func TimestampedName(name string, now time.Time) string {
	return TimestampPrefix(now) + "-" + StripTimestampPrefix(name)
}

// SanitizeFileName reduces an uploaded file name to its last path element so
// it cannot redirect the upload into another folder.
func SanitizeFileName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	base := path.Base(name)
	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", common.ErrInvalidFileName, name)
	}
	return base, nil
}

// ValidateEntityID checks that id is usable as a single folder segment.
// The empty id is valid and means "no entity folder".
func ValidateEntityID(id string) error {
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", common.ErrInvalidEntityID, id)
	}
	return nil
}
