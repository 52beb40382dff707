package marionette

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestManifestLoaderReadsTiming(t *testing.T) {
	l := &ManifestLoader{Source: DirSource{FS: sampleFS()}, Concurrency: 2}
	m, err := l.ReadManifest(context.Background(), "Hiyori", "Hiyori.model3.json")
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	idle := m.Motions[MotionGroupIdle]
	if idle[0].Duration != 4.5 || !idle[0].Loop {
		t.Errorf("idle_01 = %+v", idle[0])
	}
	if idle[1].Duration != 2.0 || idle[1].Loop {
		t.Errorf("idle_02 = %+v", idle[1])
	}
	if tap := m.Motions[MotionGroupTapBody][0]; tap.Duration != 1.25 {
		t.Errorf("tap_01 = %+v", tap)
	}
}

func TestManifestLoaderErrors(t *testing.T) {
	l := &ManifestLoader{Source: DirSource{FS: sampleFS()}}
	tests := []struct {
		dir  string
		want string
	}{
		{"Broken", "Meta"},
		{"BadExpr", "expression x"},
		{"Missing", "gone.motion3.json"},
		{"Nowhere", "Nowhere/Nowhere.model3.json"},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			_, err := l.ReadManifest(context.Background(), tt.dir, tt.dir+ManifestSuffix)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestManifestLoaderNoSource(t *testing.T) {
	l := &ManifestLoader{}
	if _, err := l.ReadManifest(context.Background(), "a", "a.model3.json"); err == nil {
		t.Error("expected error without a source")
	}
}

func TestDirSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DirSource{FS: sampleFS()}.ReadFile(ctx, "Hiyori/Hiyori.moc3")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.FileServer(http.FS(sampleFS())))
	defer srv.Close()

	l := &ManifestLoader{Source: HTTPSource{Base: srv.URL, Client: srv.Client()}}
	m, err := l.ReadManifest(context.Background(), "Hiyori", "Hiyori.model3.json")
	if err != nil {
		t.Fatalf("ReadManifest over HTTP: %v", err)
	}
	if m.Motions[MotionGroupIdle][0].Duration != 4.5 {
		t.Errorf("Duration = %v", m.Motions[MotionGroupIdle][0].Duration)
	}

	_, err = HTTPSource{Base: srv.URL}.ReadFile(context.Background(), "nope.json")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("err = %v, want 404", err)
	}
}

func TestSourceFor(t *testing.T) {
	if _, ok := SourceFor("https://cdn.example.com/models", nil).(HTTPSource); !ok {
		t.Error("https root should use HTTPSource")
	}
	if _, ok := SourceFor("http://localhost:8080", nil).(HTTPSource); !ok {
		t.Error("http root should use HTTPSource")
	}
	if _, ok := SourceFor("resources", sampleFS()).(DirSource); !ok {
		t.Error("path root should use DirSource")
	}
}

func TestAssetLoaderDrain(t *testing.T) {
	reader := &fakeReader{
		manifests: map[string]*Manifest{"A": testManifest("A")},
		gate:      make(chan struct{}),
	}
	l := NewAssetLoader(reader)
	defer l.Close()

	fa := newFigure("A", "A.model3.json", 1, nil)
	fb := newFigure("B", "B.model3.json", 1, nil)
	l.Request(fa)
	l.Request(fb)
	if l.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", l.Pending())
	}
	if n := l.Drain(func(loadResult) { t.Error("nothing should be ready") }); n != 0 {
		t.Errorf("Drain = %d", n)
	}

	close(reader.gate)
	l.Wait()
	if l.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", l.Pending())
	}

	results := map[*Figure]loadResult{}
	if n := l.Drain(func(r loadResult) { results[r.figure] = r }); n != 2 {
		t.Fatalf("Drain = %d, want 2", n)
	}
	if r := results[fa]; r.err != nil || r.manifest == nil || r.manifest.Dir != "A" {
		t.Errorf("A result = %+v", r)
	}
	if r := results[fb]; r.err == nil {
		t.Error("B should fail: no manifest")
	}
}

func TestAssetLoaderCloseCancels(t *testing.T) {
	reader := &fakeReader{
		manifests: map[string]*Manifest{"A": testManifest("A")},
		gate:      make(chan struct{}),
	}
	l := NewAssetLoader(reader)
	l.Request(newFigure("A", "A.model3.json", 1, nil))
	l.Close()

	var got loadResult
	l.Drain(func(r loadResult) { got = r })
	if !errors.Is(got.err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", got.err)
	}
}
