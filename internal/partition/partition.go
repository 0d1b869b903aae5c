// Package partition builds and parses the canonical on-disk layout
// files are published under, and lists existing partitions. Listing
// goes through gocloud.dev/blob rather than a direct filesystem walk;
// the bucket is always a fileblob bucket rooted at the base directory.
package partition

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
)

// Extension is the canonical file suffix for a published partition.
const Extension = ".parquet"

// Path returns the canonical partition path for an event timestamped
// tsNs (nanoseconds since the Unix epoch), rooted at base:
//
//	{base}/{symbol}/{YYYY}/{MM}/{DD}.parquet
//
// The calendar day is the event's UTC day.
func Path(base, symbol string, tsNs int64) string {
	y, m, d := ymd(tsNs)
	return PathForDate(base, symbol, y, m, d)
}

// PathForDate returns the canonical partition path for an explicit
// calendar day, rooted at base:
//
//	{base}/{symbol}/{YYYY}/{MM}/{DD}.parquet
func PathForDate(base, symbol string, year, month, day int) string {
	return path.Join(base, symbol, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), fmt.Sprintf("%02d.parquet", day))
}

// DayPath is Path without the base root, used for blob keys.
func DayPath(symbol string, tsNs int64) string {
	y, m, d := ymd(tsNs)
	return path.Join(symbol, fmt.Sprintf("%04d", y), fmt.Sprintf("%02d", m), fmt.Sprintf("%02d.parquet", d))
}

func ymd(tsNs int64) (year, month, day int) {
	t := time.Unix(0, tsNs).UTC()
	return t.Year(), int(t.Month()), t.Day()
}

var pathPattern = regexp.MustCompile(`([^/\\]+)[/\\](\d{4})[/\\](\d{2})[/\\](\d{2})\.parquet$`)

// ExtractSymbol returns the symbol segment of a canonical partition
// path, or "" if path does not match the canonical layout.
func ExtractSymbol(p string) string {
	m := pathPattern.FindStringSubmatch(filepathToSlash(p))
	if m == nil {
		return ""
	}
	return m[1]
}

// ExtractDate returns the year, month, and day encoded in a canonical
// partition path.
func ExtractDate(p string) (year, month, day int, err error) {
	m := pathPattern.FindStringSubmatch(filepathToSlash(p))
	if m == nil {
		return 0, 0, 0, fmt.Errorf("partition: %q is not a canonical partition path", p)
	}
	year, _ = strconv.Atoi(m[2])
	month, _ = strconv.Atoi(m[3])
	day, _ = strconv.Atoi(m[4])
	return year, month, day, nil
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// ListFiles returns every canonical partition file for symbol under
// base, sorted lexically (which is also chronological, since
// YYYY/MM/DD sorts chronologically).
func ListFiles(ctx context.Context, base, symbol string) ([]string, error) {
	bucket, err := fileblob.OpenBucket(base, nil)
	if err != nil {
		return nil, fmt.Errorf("partition: open %s: %w", base, err)
	}
	defer bucket.Close()

	var files []string
	iter := bucket.List(&blob.ListOptions{Prefix: symbol + "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("partition: list %s: %w", base, err)
		}
		if obj.IsDir {
			continue
		}
		if strings.HasSuffix(obj.Key, Extension) {
			files = append(files, path.Join(base, obj.Key))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ListSymbols returns every top-level symbol directory under base,
// sorted lexically.
func ListSymbols(ctx context.Context, base string) ([]string, error) {
	bucket, err := fileblob.OpenBucket(base, nil)
	if err != nil {
		return nil, fmt.Errorf("partition: open %s: %w", base, err)
	}
	defer bucket.Close()

	var symbols []string
	iter := bucket.List(&blob.ListOptions{Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("partition: list %s: %w", base, err)
		}
		if obj.IsDir {
			symbols = append(symbols, strings.TrimSuffix(obj.Key, "/"))
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// Exists reports whether the canonical partition for symbol/tsNs has
// already been published under base. It is the idempotent-ingest
// guard that an ingest pipeline otherwise has to implement itself:
// feeding the same day's events twice should not silently double the
// partition's rows.
func Exists(ctx context.Context, base, symbol string, tsNs int64) (bool, error) {
	bucket, err := fileblob.OpenBucket(base, nil)
	if err != nil {
		return false, fmt.Errorf("partition: open %s: %w", base, err)
	}
	defer bucket.Close()

	return bucket.Exists(ctx, DayPath(symbol, tsNs))
}
