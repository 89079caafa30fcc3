package engine

import "testing"

func TestResolvePriorityRules(t *testing.T) {
	resolver := ArtifactResolver{APIBase: "https://engine.example.com"}

	cases := []struct {
		name string
		ref  string
		root string
		want string
	}{
		{
			name: "absolute_https_passthrough",
			ref:  "https://x/y.png",
			want: "https://x/y.png",
		},
		{
			name: "absolute_http_passthrough",
			ref:  "http://x/y.png",
			want: "http://x/y.png",
		},
		{
			name: "protocol_relative_upgraded",
			ref:  "//cdn.example.com/overlay.png",
			want: "https://cdn.example.com/overlay.png",
		},
		{
			name: "job_storage_path_rewritten",
			ref:  "/data/jobs/job-7/stages/alignment/diff_gray.png",
			want: "https://engine.example.com/api/jobs/job-7/artifacts/stages/alignment/diff_gray.png",
		},
		{
			name: "bare_ref_under_comparison_root",
			ref:  "stages/mask_rcnn/overlay.png",
			root: "/data/jobs/job-42/timeline/frame_02",
			want: "https://engine.example.com/api/jobs/job-42/artifacts/stages/mask_rcnn/overlay.png",
		},
		{
			name: "fallback_under_api_base",
			ref:  "static/legend.png",
			want: "https://engine.example.com/static/legend.png",
		},
		{
			name: "empty_ref_unresolved",
			ref:  "",
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolver.Resolve(tc.ref, tc.root); got != tc.want {
				t.Fatalf("Resolve(%q, %q) = %q, want %q", tc.ref, tc.root, got, tc.want)
			}
		})
	}
}

func TestResolveIdempotentOnResolvedURL(t *testing.T) {
	resolver := ArtifactResolver{APIBase: "https://engine.example.com"}
	first := resolver.Resolve("/data/jobs/job-7/stages/pcb_cd/mask.png", "")
	if got := resolver.Resolve(first, ""); got != first {
		t.Fatalf("expected resolved URL to pass through unchanged, got %q", got)
	}
}

func TestResolveEncodesSegmentsIndependently(t *testing.T) {
	resolver := ArtifactResolver{APIBase: "https://engine.example.com"}
	got := resolver.Resolve("/data/jobs/job-9/inputs/frame 01 µ.png", "")
	want := "https://engine.example.com/api/jobs/job-9/artifacts/inputs/frame%2001%20%C2%B5.png"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveAllDropsUnresolved(t *testing.T) {
	resolver := ArtifactResolver{APIBase: "https://engine.example.com"}
	out := resolver.resolveAll(map[string]string{
		"overlay": "/data/jobs/job-1/stages/object_diff/overlay.png",
		"empty":   "",
	}, "")
	if len(out) != 1 {
		t.Fatalf("expected 1 resolved artifact, got %d", len(out))
	}
	if _, ok := out["overlay"]; !ok {
		t.Fatalf("expected overlay to resolve, got %v", out)
	}
}
