package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/statlens/internal/classifier"
	"github.com/KaramelBytes/statlens/internal/pipeline"
	"github.com/KaramelBytes/statlens/internal/session"
)

func sampleResult(acc float64) *classifier.Result {
	return &classifier.Result{
		Accuracy:        acc,
		ConfusionMatrix: [][]int{{3, 1}, {0, 4}},
		ClassLabels:     []string{"benign", "malignant"},
		TargetColumn:    "diagnosis",
		Kernel:          classifier.RBF,
		TestSize:        0.2,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "sessions"))
	cfg := pipeline.DefaultConfig()
	cfg.Bins = 12
	sess := store.Create("tumors", cfg)
	if sess.HasResults() {
		t.Fatalf("new session should be empty")
	}
	sess.AddResult(sampleResult(0.75))
	time.Sleep(time.Millisecond)
	second := sess.AddResult(sampleResult(0.875))
	if err := sess.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(sess.RootDir(), "session.json")); err != nil {
		t.Fatalf("session.json missing: %v", err)
	}

	for _, ref := range []string{sess.ID, sess.ID[:8], "tumors"} {
		got, err := store.Open(ref)
		if err != nil {
			t.Fatalf("open %q: %v", ref, err)
		}
		if got.Config.Bins != 12 || len(got.Results) != 2 {
			t.Fatalf("unexpected session %+v", got)
		}
		latest, ok := got.Latest()
		if !ok || latest.ID != second.ID || latest.Result.Accuracy != 0.875 {
			t.Fatalf("latest = %+v", latest)
		}
		if latest.Result.ConfusionMatrix[1][1] != 4 {
			t.Fatalf("confusion matrix not preserved: %v", latest.Result.ConfusionMatrix)
		}
	}
	rec, err := sess.Result(second.ID[:6])
	if err != nil || rec.ID != second.ID {
		t.Fatalf("result lookup: %v %v", rec, err)
	}
}

func TestStoreListAndMissing(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "sessions"))
	all, err := store.List()
	if err != nil || len(all) != 0 {
		t.Fatalf("empty store: %v %v", all, err)
	}
	a := store.Create("a", pipeline.DefaultConfig())
	if err := a.Save(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	b := store.Create("b", pipeline.DefaultConfig())
	if err := b.Save(); err != nil {
		t.Fatal(err)
	}
	all, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Name != "b" {
		t.Fatalf("list order wrong: %v", all)
	}
	if _, err := store.Open("zzz"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok := a.Latest(); ok {
		t.Fatalf("no results expected")
	}
}
