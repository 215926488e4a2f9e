// internal/adapters/out/gcs/helper_repository_gcs.go
package gcs

import (
	"net/url"
	"strings"
)

// sanitizeObjectPath normalizes an object path:
//   - backslashes become slashes
//   - empty, "." and ".." segments are dropped
func sanitizeObjectPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" || s == "." || s == ".." {
			continue
		}
		out = append(out, s)
	}
	return strings.Join(out, "/")
}

// publicURL works when the bucket is publicly readable (uniform access via IAM).
func publicURL(bucket, objectPath string) string {
	segs := strings.Split(objectPath, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "https://storage.googleapis.com/" + bucket + "/" + strings.Join(segs, "/")
}
