package engine

import (
	"net/url"
	"regexp"
	"strings"
)

// jobStoragePattern matches the orchestrator's on-disk job layout:
// /data/jobs/<jobId>/<relative>.
var jobStoragePattern = regexp.MustCompile(`^/data/jobs/([^/]+)/(.+)$`)

// ArtifactResolver maps artifact path references of several shapes to
// externally fetchable URLs on the artifact API. A failed resolution is "",
// which consumers treat as "omit this artifact", never as an error.
type ArtifactResolver struct {
	// APIBase is the artifact API base URL, e.g. "https://api.example.com".
	APIBase string
}

// Resolve classifies ref and rewrites it to a fetchable URL. Priority order:
// absolute http(s) passes through, protocol-relative upgrades to https, a
// job-storage path rewrites onto the artifact endpoint, a bare ref under a
// job-storage comparisonRoot reuses that root's job, and anything else hangs
// directly off the API base.
func (r ArtifactResolver) Resolve(ref, comparisonRoot string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	base := strings.TrimRight(r.APIBase, "/")
	if match := jobStoragePattern.FindStringSubmatch(ref); match != nil {
		return base + "/api/jobs/" + url.PathEscape(match[1]) + "/artifacts/" + encodeSegments(match[2])
	}
	if match := jobStoragePattern.FindStringSubmatch(strings.TrimSpace(comparisonRoot)); match != nil {
		return base + "/api/jobs/" + url.PathEscape(match[1]) + "/artifacts/" + encodeSegments(strings.TrimPrefix(ref, "/"))
	}
	return base + "/" + encodeSegments(strings.TrimPrefix(ref, "/"))
}

// encodeSegments percent-encodes each path segment independently, keeping the
// "/" separators so filenames with spaces or non-ASCII characters survive.
func encodeSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// resolveAll resolves a bundle of artifact paths, dropping entries that do
// not resolve.
func (r ArtifactResolver) resolveAll(artifacts map[string]string, comparisonRoot string) map[string]string {
	if len(artifacts) == 0 {
		return nil
	}
	out := make(map[string]string, len(artifacts))
	for name, ref := range artifacts {
		if resolved := r.Resolve(ref, comparisonRoot); resolved != "" {
			out[name] = resolved
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
